package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	mw "github.com/Astemirdum/library-lending/pkg/middleware"
	"github.com/Astemirdum/library-lending/pkg/serializer"
	"github.com/Astemirdum/library-lending/pkg/validate"

	_ "github.com/Astemirdum/library-lending/swagger" // swagger docs
)

const maxCoverBytes = 5 << 20

type Handler struct {
	loanSvc    LoanService
	catalogSvc CatalogService
	authSvc    AuthService
	verifier   mw.Verifier
	log        *zap.Logger
	production bool
}

type Option func(*Handler)

// WithProduction hides raw error details from responses.
func WithProduction(production bool) Option {
	return func(h *Handler) {
		h.production = production
	}
}

func New(loanSvc LoanService, catalogSvc CatalogService, authSvc AuthService, verifier mw.Verifier, log *zap.Logger, opts ...Option) *Handler {
	h := &Handler{
		loanSvc:    loanSvc,
		catalogSvc: catalogSvc,
		authSvc:    authSvc,
		verifier:   verifier,
		log:        log.Named("handler"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.JSONSerializer = serializer.JSONIter{}
	e.Validator = validate.NewCustomValidator()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, mw.XAuthTokenHeader},
		AllowCredentials: true,
	}))

	base := e.Group("", mw.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1",
		middleware.RequestID(),
		middleware.RequestLoggerWithConfig(mw.RequestLoggerConfig(h.log)),
		mw.NewRateLimiter(apiRPS),
	)
	authMW := mw.JwtAuthentication(h.verifier)

	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)
	api.GET("/auth/me", h.Me, authMW)
	api.PUT("/auth/profile", h.UpdateProfile, authMW)
	api.PUT("/auth/change-password", h.ChangePassword, authMW)

	books := api.Group("/books")
	books.POST("", h.CreateBook)
	books.GET("", h.ListBooks)
	books.GET("/:id", h.GetBook)
	books.PUT("/:id", h.UpdateBook)
	books.DELETE("/:id", h.DeleteBook)
	books.PATCH("/:id/availability", h.SetAvailability)
	books.GET("/:id/cover", h.GetCover)
	books.PUT("/:id/cover", h.UploadCover, authMW, middleware.BodyLimit("6M"))

	authors := api.Group("/authors")
	authors.POST("", h.CreateAuthor)
	authors.GET("", h.ListAuthors)
	authors.GET("/:id", h.GetAuthor)
	authors.PUT("/:id", h.UpdateAuthor)
	authors.DELETE("/:id", h.DeleteAuthor)

	users := api.Group("/users")
	users.POST("", h.CreateUser)
	users.GET("", h.ListUsers)
	users.GET("/:id", h.GetUser)
	users.PUT("/:id", h.UpdateUser)
	users.DELETE("/:id", h.DeleteUser)

	loans := api.Group("/loans")
	loans.POST("", h.CreateLoan)
	loans.GET("", h.ListLoans)
	loans.GET("/:id", h.GetLoan)
	loans.PUT("/:id", h.UpdateLoan)
	loans.DELETE("/:id", h.DeleteLoan)
	loans.POST("/:id/renew", h.RenewLoan)
	loans.GET("/:id/estimate", h.EstimateLoan)
	loans.GET("/:id/events", h.ListLoanEvents)

	returns := api.Group("/returns", authMW)
	returns.POST("", h.RegisterReturn)
	returns.GET("", h.ListReturns)
	returns.GET("/:id", h.GetReturn)
	returns.PATCH("/:id/fine", h.UpdateFinePaid)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
