package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/yukikurage/edutask-api/internal/auth"
	"github.com/yukikurage/edutask-api/internal/config"
	"github.com/yukikurage/edutask-api/internal/database"
	"github.com/yukikurage/edutask-api/internal/repository"
	"github.com/yukikurage/edutask-api/internal/services"
	"golang.org/x/term"
	"gorm.io/gorm"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	cfg         *config.Config
	db          *gorm.DB
	authService *services.AuthService
	out         io.Writer
}

func newCommandLine(cfg *config.Config, db *gorm.DB) *commandLine {
	// tokens are never issued from the CLI, so revocations need no shared store
	issuer := auth.NewIssuer(cfg.SecretKey, cfg.JWTIssuer, cfg.AccessTokenTTL)
	return &commandLine{
		cfg:         cfg,
		db:          db,
		authService: services.NewAuthService(repository.NewUserRepository(db), issuer, auth.NewMemoryBlocklist()),
		out:         os.Stdout,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate                                          - create or update the schema and indexes")
	fmt.Fprintln(cli.out, "  bootstrap                                        - create the default admin if no admin exists")
	fmt.Fprintln(cli.out, "  adduser -username NAME -email EMAIL [-admin]     - create a user, the password is prompted next")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	addUserName := addUserCmd.String("username", "", "The user's username.")
	addUserEmail := addUserCmd.String("email", "", "The user's email.")
	addUserPwd := addUserCmd.String("password", "", "The user's password. Prompted when empty.")
	addUserAdmin := addUserCmd.Bool("admin", false, "Create the user as an admin.")

	switch args[1] {
	case "migrate":
		return database.Migrate(cli.db)
	case "bootstrap":
		if err := database.Migrate(cli.db); err != nil {
			return err
		}
		created, err := cli.authService.BootstrapAdmin(services.AdminCredentials{
			Email:    cli.cfg.DefaultAdminEmail,
			Username: cli.cfg.DefaultAdminUsername,
			Password: cli.cfg.DefaultAdminPassword,
		})
		if err != nil {
			return err
		}
		if !created {
			fmt.Fprintln(cli.out, "An admin already exists, nothing to do")
		}
		return nil
	case "adduser":
		if err := addUserCmd.Parse(args[2:]); err != nil {
			return errHelp
		}
		if *addUserName == "" || *addUserEmail == "" {
			addUserCmd.Usage()
			return errHelp
		}
		pwd := *addUserPwd
		if pwd == "" {
			fmt.Fprint(cli.out, "Enter password:")
			raw, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cli.out)
			if err != nil {
				return err
			}
			pwd = string(raw)
		}
		if pwd == "" {
			addUserCmd.Usage()
			return errHelp
		}
		return cli.addUser(*addUserName, *addUserEmail, pwd, *addUserAdmin)
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) addUser(username, email, pwd string, isAdmin bool) error {
	user, err := cli.authService.Register(services.RegisterInput{
		Email:    email,
		Username: username,
		Password: pwd,
		IsAdmin:  isAdmin,
	})
	if err != nil {
		return err
	}

	role := "student"
	if user.IsAdmin {
		role = "admin"
	}
	fmt.Fprintf(cli.out, "Created %s %s (id %d)\n", role, user.Username, user.ID)
	return nil
}
