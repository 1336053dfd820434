// Command attend drives the attendance workflow from a terminal, standing in
// for the mobile UI: restore the session, log in, run a review cycle over a
// captured photo, and submit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"presence/internal/api"
	"presence/internal/attendance"
	"presence/internal/config"
	"presence/internal/evidence"
	"presence/internal/location"
	"presence/internal/session"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg := config.Load()

	store, err := session.NewFileStore(cfg.SessionDir)
	if err != nil {
		log.Fatalf("session store: %v", err)
	}

	var mgr *session.Manager
	client := api.New(cfg.BaseURL, cfg.HTTPTimeout, func() string {
		if mgr == nil {
			return ""
		}
		return mgr.Token()
	})
	mgr = session.NewManager(store, client)
	if err := mgr.Restore(); err != nil {
		log.Fatalf("restore session: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc := attendance.NewService(client, mgr.Logout)

	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, mgr, os.Args[2:])
	case "logout":
		err = mgr.Logout()
		if err == nil {
			fmt.Println("Signed out.")
		}
	case "status":
		err = runStatus(ctx, mgr, svc)
	case "submit":
		err = runSubmit(ctx, cfg, mgr, svc, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  attend login -email <email> -password <password>
  attend status
  attend submit -photo <path>
  attend logout`)
}

func runLogin(ctx context.Context, mgr *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if err := mgr.Login(ctx, *email, *password); err != nil {
		switch {
		case errors.Is(err, session.ErrValidation):
			return fmt.Errorf("check your email and password: %v", err)
		case errors.Is(err, api.ErrInvalidCredentials):
			return fmt.Errorf("login failed: %v", err)
		case errors.Is(err, api.ErrNetwork):
			return fmt.Errorf("login failed, please try again: %v", err)
		default:
			return err
		}
	}
	sess := mgr.Current()
	if name, ok := sess.Claims["name"].(string); ok && name != "" {
		fmt.Printf("Signed in as %s.\n", name)
	} else {
		fmt.Println("Signed in.")
	}
	return nil
}

func runStatus(ctx context.Context, mgr *session.Manager, svc *attendance.Service) error {
	if !mgr.Current().Authenticated() {
		return errors.New("not signed in; run: attend login")
	}
	action := svc.ResolveAction(ctx)
	if err := svc.LastResolveErr(); err != nil {
		log.Printf("status lookup failed (%v); assuming first action of the day", err)
	}
	fmt.Printf("Next action: %s\n", action.Label())
	return nil
}

func runSubmit(ctx context.Context, cfg config.App, mgr *session.Manager, svc *attendance.Service, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	photo := fs.String("photo", "", "path to the captured photo")
	_ = fs.Parse(args)

	if !mgr.Current().Authenticated() {
		return errors.New("not signed in; run: attend login")
	}
	if *photo == "" {
		return errors.New("a captured photo is required: -photo <path>")
	}

	provider := location.NewProvider(nil, location.StaticFixer{
		Latitude:  cfg.FixLatitude,
		Longitude: cfg.FixLongitude,
		Delay:     cfg.FixDelay,
	}, location.DefaultOptions)

	review := svc.BeginReview(ctx, *photo, provider, evidence.FileEncoder{})
	fmt.Printf("Action:   %s\n", review.Action.Label())
	fmt.Printf("Location: %s\n", review.Sample)

	if !review.Ready() {
		if review.PhotoErr != nil {
			return fmt.Errorf("photo unreadable: %v", review.PhotoErr)
		}
		return fmt.Errorf("location not ready (%s); submission blocked", review.Sample)
	}

	if err := svc.SubmitReview(ctx, review); err != nil {
		return fmt.Errorf("%s", api.UserMessage(err))
	}
	done := "Checked In"
	if review.Action == attendance.ActionCheckOut {
		done = "Checked Out"
	}
	fmt.Printf("Successfully %s.\n", done)
	fmt.Println("Session closed; log in again for the next action.")
	return nil
}
