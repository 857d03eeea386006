package sandbox

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stellarburger/internal/models"
)

// FeedLimit caps the orders returned by the feed and history endpoints
const FeedLimit = 50

// FirstOrderNumber is the number given to the first order ever placed
const FirstOrderNumber = 10000

type tokenRequest struct {
	Token string `json:"token"`
}

type emailRequest struct {
	Email string `json:"email"`
}

type orderRequest struct {
	Ingredients []string `json:"ingredients"`
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("sandbox request failed", zap.String("path", c.FullPath()), zap.Error(err))
	fail(c, http.StatusInternalServerError, "internal server error")
}

// handleIngredients returns the catalog
func (s *Server) handleIngredients(c *gin.Context) {
	var records []IngredientRecord
	if err := s.db.Order("position").Find(&records).Error; err != nil {
		s.internalError(c, err)
		return
	}
	data := make([]models.Ingredient, 0, len(records))
	for _, r := range records {
		data = append(data, r.toModel())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func (s *Server) respondAuth(c *gin.Context, user UserRecord) {
	pair, err := s.issue(s.db, user.ID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"user":         user.toModel(),
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

// handleRegister creates an account and signs it in
func (s *Server) handleRegister(c *gin.Context) {
	var req models.RegisterData
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" || req.Name == "" {
		fail(c, http.StatusForbidden, "Email, password and name are required fields")
		return
	}

	var existing UserRecord
	err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&existing).Error
	if err == nil {
		fail(c, http.StatusForbidden, "User already exists")
		return
	}
	if !gorm.IsRecordNotFoundError(err) {
		s.internalError(c, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(c, err)
		return
	}
	user := UserRecord{Email: strings.ToLower(req.Email), Name: req.Name, PasswordHash: string(hash)}
	if err := s.db.Create(&user).Error; err != nil {
		s.internalError(c, err)
		return
	}
	s.respondAuth(c, user)
}

// handleLogin signs in with email and password
func (s *Server) handleLogin(c *gin.Context) {
	var req models.LoginData
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}

	var user UserRecord
	if err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err != nil {
		fail(c, http.StatusUnauthorized, "email or password are incorrect")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		fail(c, http.StatusUnauthorized, "email or password are incorrect")
		return
	}
	s.respondAuth(c, user)
}

func (s *Server) findSession(token string) (SessionRecord, bool) {
	var session SessionRecord
	if token == "" {
		return session, false
	}
	err := s.db.Where("token_hash = ?", hashToken(token)).First(&session).Error
	return session, err == nil
}

// handleLogout revokes a refresh token
func (s *Server) handleLogout(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)
	session, ok := s.findSession(req.Token)
	if !ok {
		fail(c, http.StatusNotFound, "Token required")
		return
	}
	if err := s.db.Unscoped().Delete(&session).Error; err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successful logout"})
}

// handleToken rotates a refresh token into a new pair
func (s *Server) handleToken(c *gin.Context) {
	var req tokenRequest
	_ = c.ShouldBindJSON(&req)
	session, ok := s.findSession(req.Token)
	if !ok {
		fail(c, http.StatusUnauthorized, MsgBadToken)
		return
	}

	var pair models.TokenPair
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Delete(&session).Error; err != nil {
			return err
		}
		var err error
		pair, err = s.issue(tx, session.UserID)
		return err
	})
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	})
}

func (s *Server) loadUser(c *gin.Context) (UserRecord, bool) {
	var user UserRecord
	if err := s.db.First(&user, currentUser(c)).Error; err != nil {
		fail(c, http.StatusNotFound, "User not found")
		return user, false
	}
	return user, true
}

// handleGetUser returns the signed-in profile
func (s *Server) handleGetUser(c *gin.Context) {
	user, ok := s.loadUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.toModel()})
}

// handlePatchUser updates the fields present in the request
func (s *Server) handlePatchUser(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	user, ok := s.loadUser(c)
	if !ok {
		return
	}

	if req.Email != "" {
		user.Email = strings.ToLower(req.Email)
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			s.internalError(c, err)
			return
		}
		user.PasswordHash = string(hash)
	}
	if err := s.db.Save(&user).Error; err != nil {
		fail(c, http.StatusForbidden, "User with such email already exists")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.toModel()})
}

// handleForgotPassword issues a reset token. Unknown emails are not revealed.
func (s *Server) handleForgotPassword(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		fail(c, http.StatusBadRequest, "Email is required")
		return
	}

	var user UserRecord
	if err := s.db.Where("email = ?", strings.ToLower(req.Email)).First(&user).Error; err == nil {
		if err := s.db.Model(&user).Update("reset_token", uuid.NewString()).Error; err != nil {
			s.internalError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reset email sent"})
}

// ResetToken returns the pending reset token for email. The sandbox has no
// mail delivery, so tests and the CLI read it directly.
func (s *Server) ResetToken(email string) (string, bool) {
	var user UserRecord
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return "", false
	}
	return user.ResetToken, user.ResetToken != ""
}

// handleResetPassword sets a new password with a reset token
func (s *Server) handleResetPassword(c *gin.Context) {
	var req models.PasswordReset
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" || req.Token == "" {
		fail(c, http.StatusBadRequest, "Password and token are required")
		return
	}

	var user UserRecord
	if err := s.db.Where("reset_token = ?", req.Token).First(&user).Error; err != nil {
		fail(c, http.StatusNotFound, "Incorrect reset token")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.internalError(c, err)
		return
	}
	err = s.db.Model(&user).Updates(map[string]interface{}{
		"password_hash": string(hash),
		"reset_token":   "",
	}).Error
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password successfully reset"})
}

// handleFeed returns the public feed page
func (s *Server) handleFeed(c *gin.Context) {
	page, err := s.feedPage(nil)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedBody(page))
}

// handleUserOrders returns the signed-in customer's orders
func (s *Server) handleUserOrders(c *gin.Context) {
	userID := currentUser(c)
	page, err := s.feedPage(&userID)
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedBody(page))
}

func feedBody(page models.FeedPage) gin.H {
	return gin.H{
		"success":    true,
		"orders":     page.Orders,
		"total":      page.Total,
		"totalToday": page.TotalToday,
	}
}

// handleCreateOrder places an order for the signed-in customer
func (s *Server) handleCreateOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Ingredients) == 0 {
		fail(c, http.StatusBadRequest, "Ingredient ids must be provided")
		return
	}

	order, err := s.placeOrder(currentUser(c), req.Ingredients)
	if errors.Is(err, errUnknownIngredient) {
		fail(c, http.StatusBadRequest, "One or more ids provided are incorrect")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	s.publishFeed()
	c.JSON(http.StatusOK, gin.H{"success": true, "name": order.Name, "order": order})
}

// handleOrderByNumber answers with a collection, as the production API does
func (s *Server) handleOrderByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		fail(c, http.StatusBadRequest, "Order number must be numeric")
		return
	}

	var records []OrderRecord
	if err := s.db.Where("number = ?", number).Find(&records).Error; err != nil {
		s.internalError(c, err)
		return
	}
	out := make([]models.Order, 0, len(records))
	for _, r := range records {
		out = append(out, r.toModel())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": out})
}
