package app

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros-cross-compile/internal/types"
)

func TestTargets_Defaults(t *testing.T) {
	result, err := newTestService(&fakeEngine{}).Targets(t.Context(), TargetsRequest{})
	require.NoError(t, err)

	var archs []string
	for _, arch := range result.Architectures {
		archs = append(archs, arch.Name)
	}
	assert.Equal(t, []string{"aarch64", "armhf"}, archs)
	assert.Equal(t, "arm-linux-gnueabihf", result.Architectures[1].Toolchain)

	var distros []string
	for _, distro := range result.Distros {
		distros = append(distros, distro.Name+":"+string(distro.Version))
	}
	assert.Equal(t, []string{"dashing:ros2", "eloquent:ros2", "kinetic:ros", "melodic:ros"}, distros)
	assert.Equal(t, map[string]string{"ubuntu": "xenial", "debian": "jessie"}, result.Distros[2].OSReleases)
}

func TestTargets_SourceError(t *testing.T) {
	svc := newTestService(&fakeEngine{})
	svc.TargetSource = &fakeTargets{err: errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("failed to read targets file: x.yaml")}
	_, err := svc.Targets(t.Context(), TargetsRequest{TargetFiles: []string{"x.yaml"}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestTargets_NoFilesSkipsSource(t *testing.T) {
	source := &fakeTargets{err: errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg("must not be called")}
	svc := newTestService(&fakeEngine{})
	svc.TargetSource = source
	result, err := svc.Targets(t.Context(), TargetsRequest{})
	require.NoError(t, err)
	assert.Empty(t, source.paths)
	assert.Equal(t, types.ArchitectureSupport{Toolchain: "aarch64-linux-gnu", DockerOrg: "arm64v8", Platform: "linux/arm64/v8"}, result.Architectures[0].ArchitectureSupport)
}
