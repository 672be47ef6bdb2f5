// Command fitclient drives the client SDK from a terminal. The session is
// kept in the configured keystore between runs.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"alcyxob/fitness-client/internal/app"
	"alcyxob/fitness-client/internal/config"
	"alcyxob/fitness-client/internal/domain"
	"alcyxob/fitness-client/internal/state"

	"github.com/spf13/pflag"
)

const usage = `usage: fitclient [flags] <command> [args]

commands:
  signup <name> <email> <password>
  login <email> <password>
  logout
  whoami
  groups [query]
  group <id>
  join <id>
  leave <id>
  workouts [--mine]
  trainers [--specialization tag]
  contracts
  places <query>
`

func main() {
	os.Exit(execute(os.Args[1:]))
}

// execute returns the exit code so deferred cleanup runs before os.Exit.
func execute(argv []string) int {
	flags := pflag.NewFlagSet("fitclient", pflag.ContinueOnError)
	configDir := flags.String("config", ".", "directory holding config.yaml")
	mine := flags.Bool("mine", false, "only list my workouts")
	specialization := flags.String("specialization", "", "filter trainers by specialization")
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	if err := flags.Parse(argv); err != nil {
		return 2
	}
	args := flags.Args()
	if len(args) == 0 {
		flags.Usage()
		return 2
	}

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Printf("FATAL: Could not load config: %v", err)
		return 1
	}
	a, err := app.New(cfg)
	if err != nil {
		log.Printf("FATAL: %v", err)
		return 1
	}
	defer a.Close()

	ctx := context.Background()
	if _, err := a.Start(ctx); err != nil {
		log.Printf("WARN: could not restore session: %v", err)
	}

	out, err := run(ctx, a, args, *mine, *specialization)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	if out != nil {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			log.Printf("ERROR: %v", err)
			return 1
		}
	}
	return 0
}

var errUsage = errors.New("wrong number of arguments")

func run(ctx context.Context, a *app.App, args []string, mine bool, specialization string) (any, error) {
	cmd, rest := args[0], args[1:]
	need := func(n int) error {
		if len(rest) < n {
			return fmt.Errorf("%s: %w", cmd, errUsage)
		}
		return nil
	}

	switch cmd {
	case "signup":
		if err := need(3); err != nil {
			return nil, err
		}
		return a.Auth.Signup(ctx, domain.Registration{Name: rest[0], Email: rest[1], Password: rest[2]})
	case "login":
		if err := need(2); err != nil {
			return nil, err
		}
		return a.Auth.Login(ctx, domain.Credentials{Email: rest[0], Password: rest[1]})
	case "logout":
		return nil, a.Logout(ctx)
	case "whoami":
		return a.Auth.FetchCurrentUser(ctx)
	case "groups":
		if len(rest) > 0 {
			return a.Groups.Search(ctx, strings.Join(rest, " "))
		}
		return a.Groups.FetchAll(ctx)
	case "group":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.Groups.FetchByID(ctx, rest[0])
	case "join", "leave":
		if err := need(1); err != nil {
			return nil, err
		}
		var res state.Result
		if cmd == "join" {
			res = a.Groups.Join(ctx, rest[0])
		} else {
			res = a.Groups.Leave(ctx, rest[0])
		}
		if res.RequiresAuth {
			return nil, errors.New("not logged in; run fitclient login first")
		}
		return res.OK, res.Err
	case "workouts":
		if mine {
			return a.Workouts.FetchMine(ctx)
		}
		return a.Workouts.FetchAll(ctx)
	case "trainers":
		return a.Trainers.FetchAll(ctx, specialization)
	case "contracts":
		return a.Trainers.FetchClientContracts(ctx)
	case "places":
		if err := need(1); err != nil {
			return nil, err
		}
		return a.API.SearchPlaces(ctx, strings.Join(rest, " "), 5)
	}
	return nil, fmt.Errorf("unknown command %q", cmd)
}
