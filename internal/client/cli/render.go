package cli

import (
	"strings"
	"time"

	"github.com/cpphub/hubclient/internal/client/gating"
	"github.com/cpphub/hubclient/internal/client/models"
	"github.com/cpphub/hubclient/internal/client/services"
)

const timeLayout = "2006-01-02 15:04 MST"

func (a *App) showModal(d gating.Decision) {
	switch d.Modal {
	case gating.ModalBan:
		a.println(banNotice(a.store.User()))
	case gating.ModalVerification:
		a.println(verificationNotice(a.store.User()))
	}
}

func banNotice(u *models.User) string {
	var b strings.Builder
	b.WriteString("Your account has been suspended.")
	if u != nil && u.BanReason != nil && *u.BanReason != "" {
		b.WriteString("\nReason: " + *u.BanReason)
	}
	if u != nil && u.BannedUntil != nil {
		b.WriteString("\nUntil: " + u.BannedUntil.Local().Format(timeLayout))
	} else {
		b.WriteString("\nUntil: permanent")
	}
	b.WriteString("\nOnly help, whoami, logout and exit are available.")
	return b.String()
}

func verificationNotice(u *models.User) string {
	email := "your email address"
	if u != nil && u.Email != "" {
		email = u.Email
	}
	return "Please verify your email. A verification link was sent to " + email + ".\n" +
		"Use 'verify-email <token>' with the token from the link, or 'resend' for a new one."
}

// printResult prints the message of r followed by any field errors.
func (a *App) printResult(r services.Result) {
	if r.Message != "" {
		a.println(r.Message)
	}
	for _, e := range r.Errors {
		if e.Field != "" {
			a.printf("  - %s: %s\n", e.Field, e.Message)
		} else {
			a.printf("  - %s\n", e.Message)
		}
	}
}

func (a *App) printUser(u *models.User, pictureURL string) {
	a.printf("Name:        %s\n", u.Name)
	if name := u.DisplayUsername(); name != "" {
		a.printf("Username:    %s\n", name)
	}
	if u.Email != "" {
		a.printf("Email:       %s\n", u.Email)
	}
	if u.Group != "" {
		a.printf("Group:       %s\n", u.Group)
	}
	if u.Bio != nil && *u.Bio != "" {
		a.printf("Bio:         %s\n", *u.Bio)
	}
	if u.Nationality != nil && *u.Nationality != "" {
		a.printf("Nationality: %s\n", *u.Nationality)
	}
	a.printf("Picture:     %s\n", pictureURL)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
