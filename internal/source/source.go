// Package source defines the palette Source abstraction and selects the
// variant matching an input descriptor.
package source

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/themer/internal/colour"
	imgutil "github.com/jmylchreest/themer/internal/image"
	"github.com/jmylchreest/themer/internal/source/cached"
	"github.com/jmylchreest/themer/internal/source/file"
	imagesource "github.com/jmylchreest/themer/internal/source/image"
	"github.com/jmylchreest/themer/internal/source/remote"
)

// Source produces a palette from some input.
type Source interface {
	// Name returns the variant name ("file", "remote", "cached", "image").
	Name() string

	// Read returns the palette keyed by semantic slot.
	Read(ctx context.Context) (colour.Palette, error)
}

// WallpaperProvider is implemented by sources whose input doubles as the
// theme wallpaper.
type WallpaperProvider interface {
	Wallpaper() string
}

// Kind identifies a Source variant.
type Kind string

const (
	KindFile   Kind = "file"
	KindRemote Kind = "remote"
	KindCached Kind = "cached"
	KindImage  Kind = "image"
)

// ParseKind converts a user supplied name to a Kind.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindFile, KindRemote, KindCached, KindImage:
		return k, nil
	default:
		return "", fmt.Errorf("unknown source kind %q (valid: file, remote, cached, image)", s)
	}
}

// Detect picks the variant for descriptor: a numeric token that is not an
// existing file is a remote theme id, a path with an image extension is an
// image, anything else is a colour definition file.
func Detect(descriptor string) Kind {
	if isNumeric(descriptor) && !fileExists(descriptor) {
		return KindRemote
	}
	if imgutil.IsImageFile(descriptor) {
		return KindImage
	}
	return KindFile
}

// Options carries the per-variant settings.
type Options struct {
	Remote remote.Options
	Image  imagesource.Options
	Logger hclog.Logger
}

// New builds the Source of the given kind for descriptor.
func New(kind Kind, descriptor string, opts Options) (Source, error) {
	if descriptor == "" {
		return nil, fmt.Errorf("colour source cannot be empty")
	}
	logger := opts.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	switch kind {
	case KindFile:
		return file.New(descriptor, logger.Named("file")), nil
	case KindRemote:
		ro := opts.Remote
		if ro.Logger == nil {
			ro.Logger = logger.Named("remote")
		}
		return remote.New(descriptor, ro), nil
	case KindCached:
		return cached.New(descriptor), nil
	case KindImage:
		io := opts.Image
		if io.Logger == nil {
			io.Logger = logger.Named("image")
		}
		return imagesource.New(descriptor, io), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", kind)
	}
}

// Resolve detects the kind of descriptor and builds the matching Source.
func Resolve(descriptor string, opts Options) (Source, error) {
	return New(Detect(descriptor), descriptor, opts)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
