package security

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/Josiascalt/tac-inventory-sys/internal/repository"
	"github.com/Josiascalt/tac-inventory-sys/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

var (
	jwtSecretOnce sync.Once
	jwtSecret     []byte
)

// signingKey resolves JWT_SECRET on first use. Failing on use rather than at
// package load keeps binaries that never issue or verify tokens runnable.
func signingKey() []byte {
	jwtSecretOnce.Do(func() {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			// The binary may start before the env file is exported; retry once.
			if err := godotenv.Load(); err != nil {
				log.Printf("could not load .env: %v", err)
			}
			secret = os.Getenv("JWT_SECRET")
		}

		if secret == "" {
			log.Fatal("JWT_SECRET environment variable is not set")
		}

		jwtSecret = []byte(secret)
	})

	return jwtSecret
}

func AuthenticateUser(username, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.Select("id", "username", "fullname", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"username": username})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID string, role string, username string) (string, error) {
	claims := jwt.MapClaims{
		"userID":   userID,
		"role":     role,
		"username": username,
		"exp":      time.Now().Add(time.Hour * 120).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey())
}

// CurrentUserID returns the numeric ID of the authenticated user, as set by
// JWTMiddleware.
func CurrentUserID(c *gin.Context) (int, error) {
	raw, exists := c.Get("userID")
	if !exists {
		return 0, fmt.Errorf("no authenticated user in context")
	}

	str, ok := raw.(string)
	if !ok {
		return 0, fmt.Errorf("userID claim is not a string")
	}

	id, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("userID claim is not numeric: %w", err)
	}

	return id, nil
}
