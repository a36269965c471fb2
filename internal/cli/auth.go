package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/zipboard/zipboard/internal/oauth"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for an identifier (username or email) and a password and
// authenticates. Validation and API failures turn into error alerts; the
// REPL keeps running either way.
func (a *App) Login(ctx context.Context) error {
	identifier, err := getSimpleText(a.reader, "Enter username or email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	user, err := a.auth.Login(ctx, identifier, password)
	if err != nil {
		a.alerts.Error(err.Error())
		fmt.Println("Login failed:", err)
		return err
	}

	a.alerts.Success("Logged in as " + user.Username)
	fmt.Printf("Welcome back, %s!\n", user.Username)
	return nil
}

// Register prompts for account details and registers. A pending-verification
// outcome tells the user to check their inbox; an immediate account greets
// them.
func (a *App) Register(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.auth.Register(ctx, username, email, password)
	if err != nil {
		a.alerts.Error(err.Error())
		fmt.Println("Registration failed:", err)
		return err
	}

	if res.PendingVerification {
		a.alerts.Info("Verification email sent to " + email)
		fmt.Printf("Almost there! Check %s for a verification link.\n", email)
		return nil
	}

	a.alerts.Success("Account created")
	fmt.Printf("Welcome, %s!\n", res.User.Username)
	return nil
}

// WhoAmI refreshes the profile from the server and prints it. An invalid
// token comes back as a plain "signed out" message because the 401 rule has
// already cleared the session.
func (a *App) WhoAmI(ctx context.Context) error {
	user, err := a.auth.FetchMe(ctx)
	if err != nil {
		if !a.store.IsAuthenticated() {
			fmt.Println("Not signed in.")
		} else {
			fmt.Println("Could not refresh profile:", err)
		}
		return err
	}

	fmt.Printf("%s <%s>\n", user.Username, user.Email)
	return nil
}

// Logout clears the session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.auth.Logout(ctx); err != nil {
		fmt.Println("Logout failed:", err)
		return err
	}
	fmt.Println("Signed out.")
	return nil
}

// OAuthPopup runs the popup flow for provider, pointing the completion
// redirect at the local callback relay.
func (a *App) OAuthPopup(ctx context.Context, provider string) error {
	if provider == "" {
		fmt.Println("Usage: oauth <provider>")
		return nil
	}

	fmt.Printf("Opening %s sign-in in your browser...\n", provider)
	res, err := a.popup.Start(ctx, provider, a.relay.Addr()+"/callback")
	if err != nil {
		if errors.Is(err, oauth.ErrPopupClosed) {
			fmt.Println("Sign-in window closed before completing.")
		} else {
			fmt.Println("Sign-in failed:", err)
		}
		a.alerts.Error(err.Error())
		return err
	}

	a.alerts.Success("Logged in as " + res.User.Username)
	fmt.Printf("Welcome, %s!\n", res.User.Username)
	return nil
}
