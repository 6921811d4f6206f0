package cli

import (
	"context"
	"strings"

	"github.com/cpphub/hubclient/internal/client/privilege"
	"github.com/cpphub/hubclient/internal/client/services"
)

// ProfileEdit walks through the edit-profile form. Empty answers keep the
// current values.
func (a *App) ProfileEdit(ctx context.Context) error {
	u := a.store.User()
	if u == nil {
		a.println("Please log in first.")
		return nil
	}

	in := services.ProfileInput{IsProfilePublic: u.IsProfilePublic}
	var err error

	if in.Name, err = getOptionalText(a.reader, "Full name", u.Name, a.out); err != nil {
		return err
	}
	if in.Username, err = getOptionalText(a.reader, "Username", u.DisplayUsername(), a.out); err != nil {
		return err
	}
	if in.Bio, err = getOptionalText(a.reader, "Bio", deref(u.Bio), a.out); err != nil {
		return err
	}
	if in.Nationality, err = getOptionalText(a.reader, "Nationality", deref(u.Nationality), a.out); err != nil {
		return err
	}
	if in.IsProfilePublic, err = GetYesNo(a.reader, "Public profile?", u.IsProfilePublic, a.out); err != nil {
		return err
	}

	pic, err := getSimpleText(a.reader, "Picture file (empty to keep, '-' to remove)", a.out)
	if err != nil {
		return err
	}
	switch pic = strings.TrimSpace(pic); pic {
	case "":
	case "-":
		in.ClearPicture = true
	default:
		in.PicturePath = pic
	}

	res := a.auth.UpdateProfile(ctx, in)
	a.printResult(res.Result)
	if res.Success && res.User != nil {
		a.printUser(res.User, a.auth.PictureURL(res.User))
	}
	return nil
}

// Profile shows another user's public profile.
func (a *App) Profile(ctx context.Context, userID string) error {
	res := a.auth.FetchPublicProfile(ctx, userID)
	if !res.Success || res.Profile == nil {
		a.printResult(res.Result)
		return nil
	}

	p := res.Profile
	if p.Banned {
		a.println("This user is currently banned.")
	}
	a.printUser(&p.User, a.auth.PictureURL(&p.User))
	return nil
}

// Can reports whether the active user satisfies any of groups.
func (a *App) Can(_ context.Context, groups []privilege.Group) error {
	for _, g := range groups {
		if !privilege.Known(g) {
			a.printf("Unknown group %q. Known groups: %s\n", g, joinGroups(privilege.Groups()))
			return nil
		}
	}
	if a.store.HasPrivilege(groups...) {
		a.println("yes")
	} else {
		a.println("no")
	}
	return nil
}

func joinGroups(gs []privilege.Group) string {
	names := make([]string, len(gs))
	for i, g := range gs {
		names[i] = string(g)
	}
	return strings.Join(names, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
