// cmd/seeduser creates or refreshes a back-office user.
// Usage: go run ./cmd/seeduser -username admin -password secreto -rol administrador
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/E2Software1725/Sistema-de-prestamos/internal/config"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/infra"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/model"
	"github.com/E2Software1725/Sistema-de-prestamos/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := flag.String("username", "admin", "nombre de usuario")
	password := flag.String("password", "", "contraseña (obligatoria)")
	nombre := flag.String("nombre", "Administrador", "nombre visible")
	email := flag.String("email", "", "correo")
	rol := flag.String("rol", model.RolAdministrador, "administrador | oficial | cajero")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password es obligatorio")
	}
	switch *rol {
	case model.RolAdministrador, model.RolOficial, model.RolCajero:
	default:
		log.Fatal().Str("rol", *rol).Msg("rol invalido")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	u := &model.Usuario{Username: *username, Nombre: *nombre, PasswordHash: string(hash), Rol: *rol, Activo: true}
	if *email != "" {
		u.Email = email
	}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "nombre", "email", "rol", "activo"}),
	}).Create(u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert error")
	}
	log.Info().Str("username", *username).Str("rol", *rol).Msg("usuario creado/actualizado")
}
