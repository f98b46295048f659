package authutils

import (
	"careers-backend/models"
	dbmodels "careers-backend/models/db"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func GetAdminToken(user dbmodels.AdminPanelUser, secret string, expireInSec int) (tokenString string, err error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"name": user.GetFullName(),
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  now.Add(time.Second * time.Duration(expireInSec)).Unix(),
		"iat":  now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func GetClaims(ctx *fiber.Ctx) jwt.MapClaims {
	token, ok := ctx.Locals("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func GetUserID(ctx *fiber.Ctx) string {
	userID, _ := GetClaims(ctx)["sub"].(string)
	return userID
}

const roleLocalsKey = "admin_role"

// SetUserRole актуальная роль из хранилища, перекрывает роль из токена
func SetUserRole(ctx *fiber.Ctx, role models.UserRole) {
	ctx.Locals(roleLocalsKey, role)
}

func GetUserRole(ctx *fiber.Ctx) models.UserRole {
	if role, ok := ctx.Locals(roleLocalsKey).(models.UserRole); ok {
		return role
	}
	role, _ := GetClaims(ctx)["role"].(string)
	return models.UserRole(role)
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "ошибка хеширования пароля")
	}
	return string(hash), nil
}

func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
