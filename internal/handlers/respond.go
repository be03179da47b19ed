package handlers

import (
	"fmt"
	"reflect"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/result"
	"storefront/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// respond writes the HTTP form of an operation outcome. Errors are
// infrastructure faults and never leak their text to the client.
func respond[T any](c *fiber.Ctx, res result.Result[T], err error) error {
	if err != nil {
		logger.Get().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "An unexpected error occurred",
		})
	}

	switch res.Kind {
	case result.KindSuccess:
		return c.Status(fiber.StatusOK).JSON(res.Data)
	case result.KindCreated:
		return c.Status(fiber.StatusCreated).JSON(res.Data)
	case result.KindNoContent:
		return c.SendStatus(fiber.StatusNoContent)
	case result.KindNotFound:
		return message(c, fiber.StatusNotFound, res.Message)
	case result.KindDuplicated:
		return message(c, fiber.StatusConflict, res.Message)
	case result.KindUnauthorized:
		return message(c, fiber.StatusUnauthorized, res.Message)
	default:
		return message(c, fiber.StatusBadRequest, res.Message)
	}
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// newValidator returns a validator that checks decimals as numbers, so
// `gte=0` works on prices.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// bindBody parses and validates the request body into req. When it
// returns false the 400 response has already been written.
func bindBody(c *fiber.Ctx, validate *validator.Validate, req interface{}) (bool, error) {
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := validate.Struct(req); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return false, message(c, fiber.StatusBadRequest, err.Error())
		}
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}
	return true, nil
}

// paramID reads a positive integer route parameter. When it returns false
// the 400 response has already been written.
func paramID(c *fiber.Ctx, name string) (uint, bool, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false, message(c, fiber.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
	}
	return uint(id), true, nil
}

// currentUser returns the authenticated user id. When it returns false the
// 401 response has already been written.
func currentUser(c *fiber.Ctx) (uint, bool, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, false, message(c, fiber.StatusUnauthorized, "Authentication required")
	}
	return id, true, nil
}

// messageResult wraps a plain string payload so it is sent as {"message": ...}.
func messageResult(res result.Result[string]) result.Result[fiber.Map] {
	out := result.Result[fiber.Map]{Kind: res.Kind, Message: res.Message}
	if res.IsSuccess() {
		out.Data = fiber.Map{"message": res.Data}
	}
	return out
}
