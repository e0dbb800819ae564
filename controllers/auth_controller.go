package controllers

import (
	"errors"

	"backend/pkg/resp"
	"backend/services"
	"backend/utils"

	"github.com/gin-gonic/gin"
)

type AuthController struct{ Identity *services.IdentityService }

func NewAuthController(identity *services.IdentityService) *AuthController {
	return &AuthController{Identity: identity}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// POST /auth/register
func (a *AuthController) Register(c *gin.Context) {
	var req services.RegisterIn
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	user, err := a.Identity.Register(&req)
	if err != nil {
		resp.Error(c, err)
		return
	}

	resp.Created(c, gin.H{
		"id": user.ID, "email": user.Email,
		"firstName": user.FirstName, "lastName": user.LastName,
	})
}

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}

	token, principal, err := a.Identity.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			resp.Unauthorized(c, "invalid credentials")
			return
		}
		resp.Error(c, err)
		return
	}

	resp.OK(c, gin.H{"token": token, "principal": principal})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	p, ok := utils.CurrentPrincipal(c)
	if !ok {
		resp.Unauthorized(c, "unauthorized")
		return
	}
	resp.OK(c, p)
}
