package controller

import (
	"pulsa_edu_backend/internal/model"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 在 gin 的校验引擎上注册自定义标签
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		return model.ValidDifficulty(fl.Field().String())
	})
}
