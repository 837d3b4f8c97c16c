package core

import (
	"context"
	"errors"
)

// Launcher performs host-side effects on the machine running the server.
// Implementations start the target and return without waiting for it.
type Launcher interface {
	// OpenURL opens url in the host's default browser.
	OpenURL(ctx context.Context, url string) error
	// Launch starts the named application.
	Launch(ctx context.Context, app string) error
}

var (
	// ErrAppNotFound is returned when the requested application does not exist on the host.
	ErrAppNotFound = errors.New("application not found")
	// ErrUnsupportedPlatform is returned when the host platform cannot launch applications.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Request is the JSON body accepted by the command route.
type Request struct {
	Command string `json:"command"`
}

// Response is the JSON body returned by the command route.
type Response struct {
	Response string `json:"response"`
}

// Replies sent back to the chat widget.
const (
	GoogleURL = "https://www.google.com"

	ReplyTimeLayout    = "Waktu saat ini adalah 15:04:05 pada tanggal 2006-01-02."
	ReplyWebsiteOK     = "Berhasil membuka website %s."
	ReplyWebsiteFailed = "Gagal membuka website. Error: %v"
	ReplyAppOK         = "Berhasil membuka aplikasi %s di server."
	ReplyAppNotFound   = "Aplikasi '%s' tidak ditemukan di server."
	ReplyAppFailed     = "Gagal membuka aplikasi di server. Error: %v"
	ReplyUnsupported   = "Fungsi ini hanya mendukung Windows dan macOS."
	// ReplyOpenUnknown does not mention "tanya jam" even though it is supported.
	ReplyOpenUnknown   = "Maaf, saya hanya bisa membuka Google dan Kalkulator."
	ReplyNotUnderstood = "Maaf, saya tidak mengerti perintah itu."
)

type unsupportedLauncher struct{}

func (unsupportedLauncher) OpenURL(context.Context, string) error { return ErrUnsupportedPlatform }

func (unsupportedLauncher) Launch(context.Context, string) error { return ErrUnsupportedPlatform }
