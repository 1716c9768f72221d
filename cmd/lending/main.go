package main

import (
	stdLog "log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-lending/lending/app"
	"github.com/Astemirdum/library-lending/lending/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		stdLog.Fatal("load envs from .env ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.InfoLevel),
		config.WithReadTimeout(10*time.Second),
		config.WithWriteTimeout(time.Minute),
	)

	app.Run(cfg)
}
