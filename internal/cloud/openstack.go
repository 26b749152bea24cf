package cloud

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/flavors"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/keypairs"
	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/servers"
	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/imagedata"
	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/images"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"

	"oscontrol/internal/config"
)

// Session is an authenticated connection to the cloud. It is created
// once at startup and reused for every call in the process; there is
// no re-authentication when the token expires mid-operation.
type Session struct {
	compute *gophercloud.ServiceClient
	image   *gophercloud.ServiceClient
	network *gophercloud.ServiceClient
}

var (
	_ Compute      = (*Session)(nil)
	_ ImageService = (*Session)(nil)
)

// NewSession authenticates against keystone with the given credentials
// and builds service clients for nova, glance and neutron.
func NewSession(ctx context.Context, creds config.Credentials) (*Session, error) {
	opts := gophercloud.AuthOptions{
		IdentityEndpoint: creds.AuthURL,
		Username:         creds.Username,
		Password:         creds.Password,
		DomainName:       creds.UserDomainName,
		Scope: &gophercloud.AuthScope{
			ProjectName: creds.ProjectName,
			DomainName:  creds.ProjectDomainName,
		},
	}

	provider, err := openstack.AuthenticatedClient(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %w", err)
	}

	endpoint := gophercloud.EndpointOpts{Region: creds.Region}

	compute, err := openstack.NewComputeV2(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create compute client: %w", err)
	}
	image, err := openstack.NewImageV2(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create image client: %w", err)
	}
	network, err := openstack.NewNetworkV2(provider, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create network client: %w", err)
	}

	return &Session{compute: compute, image: image, network: network}, nil
}

// FindVM looks a server up by name and normalizes it into a VM handle.
func (s *Session) FindVM(ctx context.Context, name string) (*VM, error) {
	pages, err := servers.List(s.compute, servers.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list servers: %w", err)
	}
	list, err := servers.ExtractServers(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract servers: %w", err)
	}

	// The name filter is a server-side regex; keep exact matches only
	// and let the first one win.
	for i := range list {
		if list[i].Name == name {
			return newVM(&list[i]), nil
		}
	}
	return nil, nil
}

// CreateVM resolves the image, flavor and network names and boots a
// server with a single NIC and the named key pair.
func (s *Session) CreateVM(ctx context.Context, opts CreateOpts) error {
	imageID, err := s.imageID(ctx, opts.Image)
	if err != nil {
		return err
	}
	flavorID, err := s.flavorID(ctx, opts.Flavor)
	if err != nil {
		return err
	}
	networkID, err := s.networkID(ctx, opts.Network)
	if err != nil {
		return err
	}

	log.Debug("creating server",
		"name", opts.Name, "image", imageID, "flavor", flavorID, "network", networkID, "key_pair", opts.KeyPair)

	create := servers.CreateOpts{
		Name:      opts.Name,
		ImageRef:  imageID,
		FlavorRef: flavorID,
		Networks:  []servers.Network{{UUID: networkID}},
	}
	_, err = servers.Create(ctx, s.compute, keypairs.CreateOptsExt{
		CreateOptsBuilder: create,
		KeyName:           opts.KeyPair,
	}, nil).Extract()
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return nil
}

func (s *Session) DeleteVM(ctx context.Context, id string) error {
	return servers.Delete(ctx, s.compute, id).ExtractErr()
}

func (s *Session) StartVM(ctx context.Context, id string) error {
	return servers.Start(ctx, s.compute, id).ExtractErr()
}

func (s *Session) StopVM(ctx context.Context, id string) error {
	return servers.Stop(ctx, s.compute, id).ExtractErr()
}

// FindImage looks an image up by name.
func (s *Session) FindImage(ctx context.Context, name string) (*Image, error) {
	pages, err := images.List(s.image, images.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	list, err := images.ExtractImages(pages)
	if err != nil {
		return nil, fmt.Errorf("failed to extract images: %w", err)
	}
	if len(list) == 0 {
		return nil, nil
	}
	img := list[0]
	return &Image{ID: img.ID, Name: img.Name, Status: string(img.Status)}, nil
}

// CreateImage registers a new image record. The disk bus hint matches
// what the lab images are built for.
func (s *Session) CreateImage(ctx context.Context, name string) (string, error) {
	img, err := images.Create(ctx, s.image, images.CreateOpts{
		Name:            name,
		DiskFormat:      "raw",
		ContainerFormat: "bare",
		Properties:      map[string]string{"hw_disk_bus": "ide"},
	}).Extract()
	if err != nil {
		return "", fmt.Errorf("failed to create image: %w", err)
	}
	log.Debug("created image record", "name", name, "id", img.ID)
	return img.ID, nil
}

func (s *Session) UploadImage(ctx context.Context, id string, r io.Reader) error {
	return imagedata.Upload(ctx, s.image, id, r).ExtractErr()
}

func (s *Session) DeleteImage(ctx context.Context, id string) error {
	return images.Delete(ctx, s.image, id).ExtractErr()
}

func (s *Session) imageID(ctx context.Context, name string) (string, error) {
	img, err := s.FindImage(ctx, name)
	if err != nil {
		return "", err
	}
	if img == nil {
		return "", fmt.Errorf("image %q: %w", name, ErrNotFound)
	}
	log.Debug("resolved image", "name", name, "id", img.ID)
	return img.ID, nil
}

func (s *Session) flavorID(ctx context.Context, name string) (string, error) {
	pages, err := flavors.ListDetail(s.compute, flavors.ListOpts{}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list flavors: %w", err)
	}
	list, err := flavors.ExtractFlavors(pages)
	if err != nil {
		return "", fmt.Errorf("failed to extract flavors: %w", err)
	}
	for _, f := range list {
		if f.Name == name {
			log.Debug("resolved flavor", "name", name, "id", f.ID)
			return f.ID, nil
		}
	}
	return "", fmt.Errorf("flavor %q: %w", name, ErrNotFound)
}

func (s *Session) networkID(ctx context.Context, name string) (string, error) {
	pages, err := networks.List(s.network, networks.ListOpts{Name: name}).AllPages(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list networks: %w", err)
	}
	list, err := networks.ExtractNetworks(pages)
	if err != nil {
		return "", fmt.Errorf("failed to extract networks: %w", err)
	}
	if len(list) == 0 {
		return "", fmt.Errorf("network %q: %w", name, ErrNotFound)
	}
	log.Debug("resolved network", "name", name, "id", list[0].ID)
	return list[0].ID, nil
}

func newVM(server *servers.Server) *VM {
	vm := &VM{
		ID:      server.ID,
		Name:    server.Name,
		Status:  server.Status,
		Running: server.PowerState == servers.RUNNING,
	}
	vm.Network, vm.IP = firstAddress(server.Addresses)
	return vm
}

// firstAddress extracts the first address of the first attached
// network. Map order is not stable, so networks are visited sorted by
// label. Servers without addresses get empty placeholders.
func firstAddress(addresses map[string]any) (network, ip string) {
	labels := make([]string, 0, len(addresses))
	for label := range addresses {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		addrs, ok := addresses[label].([]any)
		if !ok {
			continue
		}
		for _, a := range addrs {
			entry, ok := a.(map[string]any)
			if !ok {
				continue
			}
			if addr, ok := entry["addr"].(string); ok && addr != "" {
				return label, addr
			}
		}
	}
	return "", ""
}
