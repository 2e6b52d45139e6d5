package handler

import (
	"net/http"

	"event-reservation/internal/model"
	"event-reservation/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	router := r.Group("/auth")
	{
		router.POST("/register", h.Register)
		router.POST("/login", h.Login)
		router.GET("/me", RequireAuth(), h.Me)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		handleError(c, err, "Login")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Me(c *gin.Context) {
	me, err := h.service.Me(c.Request.Context(), principal(c))
	if err != nil {
		handleError(c, err, "Me")
		return
	}
	c.JSON(http.StatusOK, me)
}
