package middleware

import (
	"net/http"
	"strings"

	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	AuthorizationHeader = "Authorization"
	// XAuthTokenHeader is accepted for clients built against the old API.
	XAuthTokenHeader = "X-Auth-Token"
	bearer           = "Bearer "
)

type Verifier interface {
	Verify(token string) (*auth.Claims, error)
}

func JwtAuthentication(v Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr, err := extractToken(c.Request())
			if err != nil {
				return err
			}
			claims, err := v.Verify(tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "JwtAccessDenied")
			}

			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetUserID(req.Context(), claims.UserID)))
			return next(c)
		}
	}
}

func extractToken(r *http.Request) (string, error) {
	if authorization := r.Header.Get(AuthorizationHeader); authorization != "" {
		if !strings.HasPrefix(authorization, bearer) {
			return "", echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
		}
		return strings.TrimPrefix(authorization, bearer), nil
	}
	if token := r.Header.Get(XAuthTokenHeader); token != "" {
		return token, nil
	}
	return "", echo.NewHTTPError(http.StatusUnauthorized, "No Authorization Header")
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	return middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
}
