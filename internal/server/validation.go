package server

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/archboard/archboard-backend/internal/types"
)

var registerOnce sync.Once

// RegisterValidators installs the domain vocabularies on gin's binding
// engine so payload schemas are enforced before anything reaches a service.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("ordinal", func(fl validator.FieldLevel) bool {
			return types.Ordinal(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("hypstatus", func(fl validator.FieldLevel) bool {
			return types.HypothesisStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("sourcetype", func(fl validator.FieldLevel) bool {
			return types.SourceType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("actiontype", func(fl validator.FieldLevel) bool {
			return types.ActionType(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("qualityattr", func(fl validator.FieldLevel) bool {
			return types.ValidQualityAttribute(fl.Field().String())
		})
		_ = v.RegisterValidation("entityref", func(fl validator.FieldLevel) bool {
			return types.ValidEntityRef(fl.Field().String())
		})
	})
}
