package usersapimodels

import (
	dbmodels "careers-backend/models/db"
	"time"
)

type UserView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func UserConvert(rec dbmodels.User) UserView {
	return UserView{
		ID:        rec.ID,
		Username:  rec.Username,
		CreatedAt: rec.CreatedAt,
	}
}
