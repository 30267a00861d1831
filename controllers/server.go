package controllers

import (
	"net/http"
	"time"

	"github.com/go-playground/validator"
	"github.com/hibiken/asynq"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"makeoverapi/config"
	"makeoverapi/flows"
	"makeoverapi/services"
	"makeoverapi/store"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// TaskEnqueuer is the part of asynq.Client the handlers use.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Dependencies struct {
	DB       *gorm.DB
	Config   *config.Config
	Google   services.GoogleServiceProvider
	Bucket   services.ImageBucket
	ReadURLs services.ReadURLResolver
	Stores   store.Factory
	Actions  *flows.Actions
	// Tasks is nil when looks keep their inline images
	Tasks  TaskEnqueuer
	Logger *zap.Logger
	Now    func() time.Time
}

func SetupServer(deps Dependencies) *echo.Echo {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	e := echo.New()
	e.Validator = &CustomValidator{validator: flows.NewValidator()}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", deps.DB)
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	jwtMiddleware := echojwt.JWT([]byte(deps.Config.JWTSecret))

	authController := AuthController{Google: deps.Google, Config: deps.Config, Logger: deps.Logger}
	authController.AuthRoutes(e.Group("/auth"))

	accountMiddleware := AccountMiddleware(deps.Logger)

	meGroup := e.Group("/me", jwtMiddleware, accountMiddleware)
	profileController := ProfileController{Stores: deps.Stores, Logger: deps.Logger}
	profileController.ProfileRoutes(meGroup)

	wardrobeController := WardrobeController{
		Bucket:   deps.Bucket,
		ReadURLs: deps.ReadURLs,
		Stores:   deps.Stores,
		Logger:   deps.Logger,
	}
	wardrobeController.WardrobeRoutes(meGroup.Group("/wardrobe"))

	looksController := LooksController{
		Bucket:   deps.Bucket,
		ReadURLs: deps.ReadURLs,
		Stores:   deps.Stores,
		Tasks:    deps.Tasks,
		Logger:   deps.Logger,
	}
	looksController.LookRoutes(meGroup.Group("/looks"))

	stylingController := StylingController{Actions: deps.Actions, Stores: deps.Stores, Now: deps.Now, Logger: deps.Logger}
	stylingController.ActionRoutes(e.Group("/actions", jwtMiddleware, accountMiddleware))

	return e
}
