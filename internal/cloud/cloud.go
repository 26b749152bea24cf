// Package cloud normalizes the OpenStack view of servers and images
// into the small handle types the lifecycle operations work with.
package cloud

import (
	"context"
	"errors"
	"io"
)

// Server statuses reported by the compute API that the lifecycle
// operations care about.
const (
	StatusActive = "ACTIVE"
	StatusError  = "ERROR"
)

// ErrNotFound marks a named resource that does not exist, in contexts
// where absence is an error rather than something to wait out.
var ErrNotFound = errors.New("not found")

// VM is a point-in-time snapshot of a server. Pollers re-query rather
// than mutating a snapshot.
type VM struct {
	ID      string
	Name    string
	Status  string
	Running bool

	// Network and IP describe the first address of the first attached
	// network. Both are empty when no network is attached yet.
	Network string
	IP      string
}

// Image is a snapshot of a stored disk image.
type Image struct {
	ID     string
	Name   string
	Status string
}

// CreateOpts names the resources a new server is built from. All
// fields refer to resources by name, not ID.
type CreateOpts struct {
	Name    string
	Image   string
	KeyPair string
	Flavor  string
	Network string
}

// Compute is the server-facing half of the cloud API.
type Compute interface {
	// FindVM looks a server up by name. The first match wins. A nil
	// VM with a nil error means no server with that name exists.
	FindVM(ctx context.Context, name string) (*VM, error)
	CreateVM(ctx context.Context, opts CreateOpts) error
	DeleteVM(ctx context.Context, id string) error
	StartVM(ctx context.Context, id string) error
	StopVM(ctx context.Context, id string) error
}

// ImageService is the image-facing half of the cloud API.
type ImageService interface {
	// FindImage looks an image up by name. A nil Image with a nil
	// error means no image with that name exists.
	FindImage(ctx context.Context, name string) (*Image, error)
	// CreateImage registers a new raw/bare image record and returns
	// its ID. The image data is uploaded separately.
	CreateImage(ctx context.Context, name string) (string, error)
	UploadImage(ctx context.Context, id string, r io.Reader) error
	DeleteImage(ctx context.Context, id string) error
}
