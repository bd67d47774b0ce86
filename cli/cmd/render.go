package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"

	"photoshare/cli/internal/client"
)

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	loginColor  = color.New(color.FgGreen)
	dimColor    = color.New(color.Faint)
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func render(w io.Writer, v interface{}, text func(io.Writer)) error {
	if output == "json" {
		return writeJSON(w, v)
	}
	text(w)
	return nil
}

func renderUsers(w io.Writer, data client.RootData) {
	headerColor.Fprintf(w, "%d Users\n", data.TotalUsers)
	for _, u := range data.AllUsers {
		renderUserLine(w, u)
	}
}

func renderUserLine(w io.Writer, u client.User) {
	fmt.Fprint(w, "  ")
	loginColor.Fprint(w, u.GithubLogin)
	if u.Name != "" {
		fmt.Fprintf(w, "  %s", u.Name)
	}
	if u.Avatar != "" {
		dimColor.Fprintf(w, "  %s", u.Avatar)
	}
	fmt.Fprintln(w)
}

func renderPhotos(w io.Writer, data client.PhotosData) {
	headerColor.Fprintf(w, "%d Photos\n", data.TotalPhotos)
	for _, p := range data.AllPhotos {
		renderPhoto(w, p)
	}
}

func renderPhoto(w io.Writer, p client.Photo) {
	fmt.Fprintf(w, "  [%s] %s (%s)\n", p.ID, p.Name, p.Category)
	if p.Description != nil && *p.Description != "" {
		fmt.Fprintf(w, "      %s\n", *p.Description)
	}
	poster := "unknown"
	if p.PostedBy != nil {
		poster = p.PostedBy.GithubLogin
	}
	dimColor.Fprintf(w, "      %s by %s, %s\n", p.URL, poster, p.Created)
	if len(p.TaggedUsers) > 0 {
		logins := make([]string, len(p.TaggedUsers))
		for i, u := range p.TaggedUsers {
			logins[i] = u.GithubLogin
		}
		dimColor.Fprintf(w, "      tagged: %v\n", logins)
	}
}

func renderProfile(w io.Writer, p *client.Profile) {
	if p == nil {
		fmt.Fprintln(w, "Not signed in. Run 'photoshare login' first.")
		return
	}
	headerColor.Fprintf(w, "%s", p.GithubLogin)
	if p.Name != "" {
		fmt.Fprintf(w, " (%s)", p.Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  posted %d photo(s), tagged in %d\n", len(p.PostedPhotos), len(p.InPhotos))
	for _, ph := range p.PostedPhotos {
		fmt.Fprintf(w, "  - [%s] %s\n", ph.ID, ph.Name)
	}
}
