package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"photoshare/cli/internal/client"
)

func newPhotosCmd() *cobra.Command {
	var after string

	cmd := &cobra.Command{
		Use:   "photos",
		Short: "List photos",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}
			var since time.Time
			if after != "" {
				t, err := parseDate(after)
				if err != nil {
					return err
				}
				since = t
			}

			data, err := newAPIClient().AllPhotos(cmd.Context(), since)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), data, func(w io.Writer) { renderPhotos(w, *data) })
		},
	}

	cmd.Flags().StringVar(&after, "after", "", "only photos created after this date (YYYY-MM-DD or RFC 3339)")
	cmd.AddCommand(newPhotosPostCmd())
	return cmd
}

func newPhotosPostCmd() *cobra.Command {
	var input client.PostPhotoInput

	cmd := &cobra.Command{
		Use:   "post",
		Short: "Post a photo as the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(); err != nil {
				return err
			}
			if strings.TrimSpace(input.Name) == "" {
				return fmt.Errorf("--name is required")
			}
			input.Category = strings.ToUpper(input.Category)

			photo, err := newAPIClient().PostPhoto(cmd.Context(), input)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), photo, func(w io.Writer) {
				headerColor.Fprintln(w, "Photo posted")
				renderPhoto(w, *photo)
			})
		},
	}

	cmd.Flags().StringVar(&input.Name, "name", "", "photo name")
	cmd.Flags().StringVar(&input.Category, "category", "", "SELFIE|PORTRAIT|ACTION|LANDSCAPE|GRAPHIC (default PORTRAIT)")
	cmd.Flags().StringVar(&input.Description, "description", "", "photo description")
	return cmd
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD or RFC 3339)", s)
}
