package main

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Uploads a source video through the ingress",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		file, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer file.Close()

		// Pipe the multipart body so the file streams instead of being
		// buffered in memory.
		pr, pw := io.Pipe()
		writer := multipart.NewWriter(pw)

		go func() {
			part, err := writer.CreateFormFile("video", filepath.Base(args[0]))
			if err != nil {
				pw.CloseWithError(err)
				return
			}
			if _, err := io.Copy(part, file); err != nil {
				pw.CloseWithError(err)
				return
			}
			pw.CloseWithError(writer.Close())
		}()

		resp, err := http.Post(serverURL+"/api/v1/upload", writer.FormDataContentType(), pr)
		if err != nil {
			return fmt.Errorf("uploading to ingress: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading ingress response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("ingress rejected upload: %s: %s", resp.Status, string(body))
		}

		color.Green("%s", string(body))
		return nil
	},
}

func init() { //nolint:gochecknoinits // Cobra's init function for command registration
	rootCmd.AddCommand(uploadCmd)
}
