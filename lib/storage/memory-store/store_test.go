package memorystore

import (
	"careers-backend/lib/storage"
	"careers-backend/lib/storage/storagetest"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return NewInstance()
	})
}
