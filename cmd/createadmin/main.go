// Command createadmin seeds an admin account. It is safe to run repeatedly:
// an existing account with the same email is left untouched.
//
//	createadmin -email admin@example.com -password 'secret123'
//
// ADMIN_EMAIL and ADMIN_PASSWORD are used when the flags are omitted.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"strings"

	"go.uber.org/zap"

	"sheet-insights-api/internal"
	"sheet-insights-api/internal/domain/user"
)

func main() {
	email := flag.String("email", os.Getenv("ADMIN_EMAIL"), "admin email")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	name := flag.String("name", "Admin", "display name")
	flag.Parse()

	if strings.TrimSpace(*email) == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()

	app, err := internal.NewCLIApp(ctx)
	if err != nil {
		log.Fatalf("init app failed: %v", err)
	}
	defer app.Close()

	logger := app.Logger()
	us := app.UserService()

	existing, err := us.FindByEmail(ctx, *email)
	if err != nil {
		logger.Fatal("FindByEmail() error", zap.Error(err))
	}
	if existing != nil {
		logger.Info("admin user already exists", zap.String("email", existing.Email))
		return
	}

	u, err := us.CreateUser(ctx, user.User{
		Name:  *name,
		Email: strings.ToLower(strings.TrimSpace(*email)),
		Role:  user.RoleAdmin,
	}, *password)
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		logger.Info("admin user already exists", zap.String("email", *email))
		return
	}
	if err != nil {
		logger.Fatal("CreateUser() error", zap.Error(err))
	}

	logger.Info("admin user created successfully", zap.Stringer("user_id", u.UUID))
}
