package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"syscall"

	"system-biblioteczny/internal/auth"
	"system-biblioteczny/internal/config"
	"system-biblioteczny/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	createUserFullName string
	createUserEmail    string
)

func newCreateUserCommand() *cobra.Command {
	m := &cobra.Command{
		Use:   "create-user username",
		Short: "Add a library user from the command line",
		Args:  cobra.ExactArgs(1),
		Run:   runCreateUserCommandFunc,
	}

	m.Flags().StringVar(&createUserFullName, "fullname", "", "Full name of the user (defaults to the username)")
	m.Flags().StringVar(&createUserEmail, "email", "", "E-mail address of the user")

	return m
}

// readPassword reads a password with terminal echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func runCreateUserCommandFunc(cmd *cobra.Command, args []string) {
	username := args[0]

	if createUserEmail == "" {
		log.Fatal("Flaga --email jest wymagana")
	}
	fullName := createUserFullName
	if fullName == "" {
		fullName = username
	}

	password, err := readPassword(fmt.Sprintf("Enter password for %s: ", username))
	if err != nil {
		log.Fatalf("Nie można odczytać hasła: %v", err)
	}
	if password == "" {
		log.Fatal("Hasło nie może być puste")
	}

	confirm, err := readPassword("Confirm password: ")
	if err != nil {
		log.Fatalf("Nie można odczytać hasła: %v", err)
	}
	if password != confirm {
		log.Fatal("Hasła nie są identyczne")
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Nie można zahashować hasła: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Nie można wczytać konfiguracji: %v", err)
	}

	dbpool, err := pgxpool.New(context.Background(), cfg.DB.Source)
	if err != nil {
		log.Fatalf("Nie można połączyć się z bazą danych: %v", err)
	}
	defer dbpool.Close()

	store := database.NewStore(dbpool)
	user, err := store.CreateUser(context.Background(), database.CreateUserParams{
		FullName:     fullName,
		Username:     username,
		Email:        createUserEmail,
		PasswordHash: hashedPassword,
	})
	if err != nil {
		if errors.Is(err, database.ErrUserExists) {
			log.Fatal("Użytkownik o tej nazwie lub adresie e-mail już istnieje")
		}
		log.Fatalf("Nie można utworzyć użytkownika: %v", err)
	}

	fmt.Printf("Added user '%s' with ID %d\n", user.Username, user.ID)
}
