package controller

import (
	"errors"
	"learning_platform_backend/internal/service"
	"learning_platform_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
	UserService *service.UserService
}

func NewAuthController(authService *service.AuthService, userService *service.UserService) *AuthController {
	return &AuthController{
		AuthService: authService,
		UserService: userService,
	}
}

// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param user body service.RegisterRequest true "注册信息"
// @Success 201 {object} util.Response
// @Router /api/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(req)
	if errors.Is(err, util.ErrEmailRegistered) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, user)
}

// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param credentials body service.LoginRequest true "登录凭证"
// @Success 200 {object} util.Response
// @Router /api/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.AuthService.Login(req)
	if errors.Is(err, util.ErrUserNotFound) {
		util.Error(ctx, 401, "invalid email or password")
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, resp)
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// @Summary 请求重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req forgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	// 邮箱不存在时也返回成功，避免探测注册用户
	token, err := c.AuthService.RequestPasswordReset(ctx.Request.Context(), req.Email)
	if err != nil && !errors.Is(err, util.ErrUserNotFound) {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"resetToken": token})
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// @Summary 重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body resetPasswordRequest true "令牌和新密码"
// @Success 200 {object} util.Response
// @Router /api/reset-password [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req resetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.AuthService.ResetPassword(ctx.Request.Context(), req.Token, req.Password)
	if errors.Is(err, util.ErrInvalidToken) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary 获取个人信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/users/profile [get]
func (c *AuthController) GetProfile(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, profile)
}
