package user

import (
	"automarket/app/respond"
	"automarket/internal"
	"automarket/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func UserRegister(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	var data service.RegisterInput
	if err := c.ShouldBindJSON(&data); err != nil {
		respond.BadBody(c, err)
		return
	}

	user, err := d.Users.Register(c.Request.Context(), data)
	if err != nil {
		respond.Error(c, err)
		return
	}

	zap.L().Info("User registered", zap.Uint("user_id", user.ID), zap.String("requestID", requestID))

	respond.Detail(c, http.StatusCreated, "User created successfully. Please verify your email.")
}
