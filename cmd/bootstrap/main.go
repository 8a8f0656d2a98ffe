// Command bootstrap creates the initial admin account. It connects to the
// database directly, so it can run before the server is ever started.
package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/openmuse/openmuse/internal/common"
	"github.com/openmuse/openmuse/internal/server/config"
	"github.com/openmuse/openmuse/internal/server/repositories/repomanager"
	"github.com/openmuse/openmuse/internal/server/services"
)

var readPassword = term.ReadPassword

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func promptPassword() (string, error) {
	fmt.Print("Password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func run(ctx context.Context) error {
	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	reader := bufio.NewReader(os.Stdin)
	username, err := promptLine(reader, "Admin username: ")
	if err != nil {
		return err
	}
	email, err := promptLine(reader, "Admin email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword()
	if err != nil {
		return err
	}

	us := services.NewUserService(rm.Users(db), cfg)
	user, err := us.CreateAdmin(ctx, username, email, password)
	if err != nil {
		if errors.Is(err, common.ErrDuplicateUsername) || errors.Is(err, common.ErrDuplicateEmail) {
			return fmt.Errorf("account already exists: %w", err)
		}
		return err
	}

	fmt.Printf("Admin account created: %s (%s)\n", user.Username, user.ID)
	return nil
}

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
