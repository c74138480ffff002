package app

import (
	"strings"
	"time"

	"ros-cross-compile/internal/adapters"
	"ros-cross-compile/internal/ports"
)

type Service struct {
	Engine       ports.ContainerEngineConnector
	TargetSource ports.TargetTablesPort
	Identity     ports.IdentityPort
	Workspace    ports.WorkspacePort
	Manifests    ports.PackageManifestPort
	Clock        func() time.Time
}

// NewService wires the production adapters. dockerHost may be empty to
// use the environment default; a non-empty buildIdentity replaces the
// OS user lookup.
func NewService(dockerHost string, buildIdentity string) Service {
	var identity ports.IdentityPort = adapters.NewOSUserIdentityAdapter()
	if strings.TrimSpace(buildIdentity) != "" {
		identity = adapters.NewStaticIdentityAdapter(buildIdentity)
	}
	return Service{
		Engine:       adapters.ConnectDockerEngine(dockerHost),
		TargetSource: adapters.NewTargetTablesFileAdapter(),
		Identity:     identity,
		Workspace:    adapters.NewWorkspaceAdapter(),
		Manifests:    adapters.NewPackageXMLAdapter(),
		Clock:        time.Now,
	}
}
