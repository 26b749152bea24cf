// Package lifecycle composes the VM and image operations: each one
// issues at most one mutation against the cloud API and then blocks on
// the poller until the target state is observed.
package lifecycle

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"oscontrol/internal/cloud"
	"oscontrol/internal/errors"
	"oscontrol/internal/waiter"
)

const (
	// statusInterval is the cadence for server state polls.
	statusInterval = 1 * time.Second
	// probeInterval is the cadence for reachability probes.
	probeInterval = 2 * time.Second
)

// Ops drives the lifecycle operations. The zero value is not usable;
// build it with New.
type Ops struct {
	Compute cloud.Compute
	Images  cloud.ImageService

	// Probe reports whether an address answers a liveness check.
	Probe func(ctx context.Context, ip string) bool

	// StatusInterval and ProbeInterval control the polling cadence.
	// Tests shrink them to keep the suite fast.
	StatusInterval time.Duration
	ProbeInterval  time.Duration
}

// New returns lifecycle operations with the production probe and
// polling cadence.
func New(compute cloud.Compute, images cloud.ImageService) *Ops {
	return &Ops{
		Compute:        compute,
		Images:         images,
		Probe:          waiter.Ping,
		StatusInterval: statusInterval,
		ProbeInterval:  probeInterval,
	}
}

// Status looks the VM up by name. A nil VM with a nil error means no
// VM with that name exists.
func (o *Ops) Status(ctx context.Context, name string) (*cloud.VM, error) {
	vm, err := o.Compute.FindVM(ctx, name)
	if err != nil {
		return nil, errors.E("vm-status", err)
	}
	return vm, nil
}

// Create boots a new VM and blocks until it reports ACTIVE and answers
// the liveness probe. It returns the VM's assigned IP address.
func (o *Ops) Create(ctx context.Context, opts cloud.CreateOpts) (string, error) {
	const op = "vm-create"

	if err := o.Compute.CreateVM(ctx, opts); err != nil {
		return "", errors.E(op, err)
	}

	err := waiter.Until(ctx, waiter.Wait{
		Interval: o.StatusInterval,
		Waiting:  fmt.Sprintf("VM %q to become %s", opts.Name, cloud.StatusActive),
		Done:     fmt.Sprintf("VM %q is %s.", opts.Name, cloud.StatusActive),
	}, func(ctx context.Context) (bool, error) {
		vm, err := o.Compute.FindVM(ctx, opts.Name)
		if err != nil {
			return false, err
		}
		if vm == nil {
			// Not visible yet while the build request propagates.
			return false, nil
		}
		if vm.Status == cloud.StatusError {
			return false, fmt.Errorf("VM %q entered %s state", opts.Name, cloud.StatusError)
		}
		log.Debug("polled server status", "name", opts.Name, "status", vm.Status)
		return vm.Status == cloud.StatusActive, nil
	})
	if err != nil {
		return "", errors.E(op, err)
	}

	var ip string
	err = waiter.Until(ctx, waiter.Wait{
		Interval: o.ProbeInterval,
		Waiting:  fmt.Sprintf("VM %q to answer ping", opts.Name),
		Done:     fmt.Sprintf("VM %q is reachable.", opts.Name),
	}, func(ctx context.Context) (bool, error) {
		vm, err := o.Compute.FindVM(ctx, opts.Name)
		if err != nil {
			return false, err
		}
		if vm == nil || vm.IP == "" {
			// No address assigned yet.
			return false, nil
		}
		if !o.Probe(ctx, vm.IP) {
			return false, nil
		}
		ip = vm.IP
		return true, nil
	})
	if err != nil {
		return "", errors.E(op, err)
	}

	return ip, nil
}

// Delete removes the VM and blocks until it is gone. Deleting a VM
// that does not exist is a no-op.
func (o *Ops) Delete(ctx context.Context, name string) error {
	const op = "vm-delete"

	vm, err := o.Compute.FindVM(ctx, name)
	if err != nil {
		return errors.E(op, err)
	}
	if vm == nil {
		log.Debug("no VM to delete", "name", name)
		return nil
	}

	if err := o.Compute.DeleteVM(ctx, vm.ID); err != nil {
		return errors.E(op, err)
	}

	err = waiter.Until(ctx, waiter.Wait{
		Interval: o.StatusInterval,
		Waiting:  fmt.Sprintf("VM %q to be deleted", name),
		Done:     fmt.Sprintf("VM %q is gone.", name),
	}, func(ctx context.Context) (bool, error) {
		vm, err := o.Compute.FindVM(ctx, name)
		if err != nil {
			return false, err
		}
		return vm == nil, nil
	})
	if err != nil {
		return errors.E(op, err)
	}
	return nil
}

// Start powers the VM on and blocks until it is running. Starting a
// running VM is a no-op.
func (o *Ops) Start(ctx context.Context, name string) error {
	const op = "vm-start"

	vm, err := o.Compute.FindVM(ctx, name)
	if err != nil {
		return errors.E(op, err)
	}
	if vm == nil {
		return errors.E(op, fmt.Errorf("VM %q: %w", name, cloud.ErrNotFound))
	}
	if vm.Running {
		log.Debug("VM already running", "name", name)
		return nil
	}

	if err := o.Compute.StartVM(ctx, vm.ID); err != nil {
		return errors.E(op, err)
	}

	err = waiter.Until(ctx, waiter.Wait{
		Interval: o.StatusInterval,
		Waiting:  fmt.Sprintf("VM %q to start", name),
		Done:     fmt.Sprintf("VM %q is running.", name),
	}, func(ctx context.Context) (bool, error) {
		vm, err := o.Compute.FindVM(ctx, name)
		if err != nil {
			return false, err
		}
		return vm != nil && vm.Running, nil
	})
	if err != nil {
		return errors.E(op, err)
	}
	return nil
}

// Stop powers the VM off and blocks until it has stopped. Stopping a
// stopped VM is a no-op.
func (o *Ops) Stop(ctx context.Context, name string) error {
	const op = "vm-stop"

	vm, err := o.Compute.FindVM(ctx, name)
	if err != nil {
		return errors.E(op, err)
	}
	if vm == nil {
		return errors.E(op, fmt.Errorf("VM %q: %w", name, cloud.ErrNotFound))
	}
	if !vm.Running {
		log.Debug("VM already stopped", "name", name)
		return nil
	}

	if err := o.Compute.StopVM(ctx, vm.ID); err != nil {
		return errors.E(op, err)
	}

	err = waiter.Until(ctx, waiter.Wait{
		Interval: o.StatusInterval,
		Waiting:  fmt.Sprintf("VM %q to stop", name),
		Done:     fmt.Sprintf("VM %q is stopped.", name),
	}, func(ctx context.Context) (bool, error) {
		vm, err := o.Compute.FindVM(ctx, name)
		if err != nil {
			return false, err
		}
		return vm != nil && !vm.Running, nil
	})
	if err != nil {
		return errors.E(op, err)
	}
	return nil
}

// UploadImage uploads the file at path as a new image. An existing
// image with the same name is replaced.
func (o *Ops) UploadImage(ctx context.Context, name, path string) error {
	const op = "image-upload"

	existing, err := o.Images.FindImage(ctx, name)
	if err != nil {
		return errors.E(op, err)
	}
	if existing != nil {
		log.Debug("replacing existing image", "name", name, "id", existing.ID)
		if err := o.Images.DeleteImage(ctx, existing.ID); err != nil {
			return errors.E(op, err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.E(op, err)
	}
	defer f.Close()

	id, err := o.Images.CreateImage(ctx, name)
	if err != nil {
		return errors.E(op, err)
	}

	log.Debug("uploading image data", "name", name, "id", id, "path", path)
	if err := o.Images.UploadImage(ctx, id, f); err != nil {
		return errors.E(op, err)
	}
	return nil
}

// DeleteImage removes the named image. Unlike VM deletion, a missing
// image is an error.
func (o *Ops) DeleteImage(ctx context.Context, name string) error {
	const op = "image-delete"

	img, err := o.Images.FindImage(ctx, name)
	if err != nil {
		return errors.E(op, err)
	}
	if img == nil {
		return errors.E(op, fmt.Errorf("image %q: %w", name, cloud.ErrNotFound))
	}

	if err := o.Images.DeleteImage(ctx, img.ID); err != nil {
		return errors.E(op, err)
	}
	return nil
}
