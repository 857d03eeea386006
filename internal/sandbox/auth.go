package sandbox

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"

	"stellarburger/internal/models"
)

// Backend messages the client reacts to
const (
	MsgExpired      = "jwt expired"
	MsgUnauthorised = "You should be authorised"
	MsgBadToken     = "Token is invalid"
)

const userIDKey = "userID"

var errTokenExpired = errors.New(MsgExpired)

// issue creates an access/refresh pair for the user and stores the refresh
// token hash.
func (s *Server) issue(db *gorm.DB, userID uint) (models.TokenPair, error) {
	now := s.now()
	claims := jwt.StandardClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.accessTTL).Unix(),
		Id:        uuid.NewString(),
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return models.TokenPair{}, err
	}

	refresh := uuid.NewString() + uuid.NewString()
	if err := db.Create(&SessionRecord{UserID: userID, TokenHash: hashToken(refresh)}).Error; err != nil {
		return models.TokenPair{}, err
	}
	return models.TokenPair{AccessToken: "Bearer " + access, RefreshToken: refresh}, nil
}

// verify checks signature and expiry against the server clock and returns the
// user id.
func (s *Server) verify(raw string) (uint, error) {
	claims := &jwt.StandardClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	token, err := parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, errors.New(MsgBadToken)
	}
	if !claims.VerifyExpiresAt(s.now().Unix(), true) {
		return 0, errTokenExpired
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, errors.New(MsgBadToken)
	}
	return uint(id), nil
}

// AuthMiddleware handles JWT authentication
func (s *Server) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			fail(c, http.StatusUnauthorized, MsgUnauthorised)
			return
		}

		userID, err := s.verify(strings.TrimPrefix(header, "Bearer "))
		switch {
		case errors.Is(err, errTokenExpired):
			fail(c, http.StatusForbidden, MsgExpired)
			return
		case err != nil:
			fail(c, http.StatusForbidden, MsgBadToken)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func currentUser(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}

func fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}
