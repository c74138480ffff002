package core

import (
	"fmt"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ros-cross-compile/internal/types"
)

func TestNewPlatformScenarios(t *testing.T) {
	tests := []struct {
		name       string
		args       PlatformArgs
		toolchain  string
		native     string
		target     string
		rosVersion types.ROSVersion
	}{
		{
			name:       "aarch64 ubuntu eloquent",
			args:       PlatformArgs{Arch: "aarch64", OSName: "ubuntu", ROSDistro: "eloquent"},
			toolchain:  "aarch64-linux-gnu",
			native:     "ubuntu:bionic",
			target:     "arm64v8/ubuntu:bionic",
			rosVersion: types.ROSVersionModern,
		},
		{
			name:       "armhf debian melodic",
			args:       PlatformArgs{Arch: "armhf", OSName: "debian", ROSDistro: "melodic"},
			toolchain:  "arm-linux-gnueabihf",
			native:     "debian:stretch",
			target:     "arm32v7/debian:stretch",
			rosVersion: types.ROSVersionLegacy,
		},
		{
			name:       "armhf ubuntu kinetic",
			args:       PlatformArgs{Arch: "armhf", OSName: "ubuntu", ROSDistro: "kinetic"},
			toolchain:  "arm-linux-gnueabihf",
			native:     "ubuntu:xenial",
			target:     "arm32v7/ubuntu:xenial",
			rosVersion: types.ROSVersionLegacy,
		},
		{
			name:       "aarch64 debian eloquent",
			args:       PlatformArgs{Arch: "aarch64", OSName: "debian", ROSDistro: "eloquent"},
			toolchain:  "aarch64-linux-gnu",
			native:     "debian:buster",
			target:     "arm64v8/debian:buster",
			rosVersion: types.ROSVersionModern,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			platform, err := NewPlatform(t.Context(), tt.args)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.toolchain, platform.CCToolchain()); diff != "" {
				t.Fatalf("unexpected toolchain (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.native, platform.NativeBaseImage()); diff != "" {
				t.Fatalf("unexpected native base image (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.target, platform.TargetBaseImage()); diff != "" {
				t.Fatalf("unexpected target base image (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.rosVersion, platform.ROSVersion())
			assert.False(t, platform.BaseImageOverridden())
		})
	}
}

func TestNewPlatformErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     PlatformArgs
		kind     ErrorKind
		contains []string
	}{
		{
			name:     "unknown architecture",
			args:     PlatformArgs{Arch: "riscv", OSName: "ubuntu", ROSDistro: "eloquent"},
			kind:     KindInvalidArchitecture,
			contains: []string{"riscv"},
		},
		{
			name:     "unknown distro",
			args:     PlatformArgs{Arch: "aarch64", OSName: "ubuntu", ROSDistro: "foxy"},
			kind:     KindInvalidDistro,
			contains: []string{"foxy"},
		},
		{
			name:     "os not mapped for distro",
			args:     PlatformArgs{Arch: "aarch64", OSName: "fedora", ROSDistro: "eloquent"},
			kind:     KindInvalidOSForDistro,
			contains: []string{"fedora", "eloquent"},
		},
		{
			name:     "architecture checked before distro",
			args:     PlatformArgs{Arch: "mips", OSName: "fedora", ROSDistro: "foxy"},
			kind:     KindInvalidArchitecture,
			contains: []string{"mips"},
		},
		{
			name:     "distro checked before os",
			args:     PlatformArgs{Arch: "armhf", OSName: "fedora", ROSDistro: "foxy"},
			kind:     KindInvalidDistro,
			contains: []string{"foxy"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlatform(t.Context(), tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
			for _, value := range tt.contains {
				assert.Contains(t, err.Error(), value)
			}
		})
	}
}

func TestNewPlatformRejectsUnknownValuesForAllTables(t *testing.T) {
	tables := DefaultTargetTables()
	for _, arch := range []string{"", "x86_64", "ARMHF", "arm64", "riscv64"} {
		_, err := NewPlatform(t.Context(), PlatformArgs{Arch: arch, OSName: "ubuntu", ROSDistro: "melodic"})
		require.Error(t, err, arch)
		assert.Equal(t, KindInvalidArchitecture, KindOf(err), arch)
	}
	for _, distro := range []string{"", "humble", "noetic", "Melodic"} {
		_, err := NewPlatform(t.Context(), PlatformArgs{Arch: "armhf", OSName: "ubuntu", ROSDistro: distro})
		require.Error(t, err, distro)
		assert.Equal(t, KindInvalidDistro, KindOf(err), distro)
	}
	for distro := range tables.OSMapping {
		for _, osName := range []string{"", "fedora", "alpine", "Ubuntu"} {
			_, err := NewPlatform(t.Context(), PlatformArgs{Arch: "armhf", OSName: osName, ROSDistro: distro})
			require.Error(t, err)
			assert.Equal(t, KindInvalidOSForDistro, KindOf(err), "%s/%s", distro, osName)
		}
	}
}

func TestNewPlatformDerivesImagesForEveryValidTriple(t *testing.T) {
	tables := DefaultTargetTables()
	for arch, support := range tables.Architectures {
		for distro, mapping := range tables.OSMapping {
			for osName, codename := range mapping {
				platform, err := NewPlatform(t.Context(), PlatformArgs{Arch: arch, OSName: osName, ROSDistro: distro})
				require.NoError(t, err)
				assert.Equal(t, fmt.Sprintf("%s/%s:%s", support.DockerOrg, osName, codename), platform.TargetBaseImage())
				assert.Equal(t, fmt.Sprintf("%s:%s", osName, codename), platform.NativeBaseImage())
				assert.Equal(t, support.Toolchain, platform.CCToolchain())
				assert.Equal(t, codename, platform.OSDistro())
			}
		}
	}
}

func TestNewPlatformOverrideBaseImage(t *testing.T) {
	override := "registry.example.com/robots/custom-base:2020.1"
	platform, err := NewPlatform(t.Context(), PlatformArgs{
		Arch:              "armhf",
		OSName:            "ubuntu",
		ROSDistro:         "dashing",
		OverrideBaseImage: override,
	})
	require.NoError(t, err)
	assert.True(t, platform.BaseImageOverridden())
	assert.Equal(t, override, platform.TargetBaseImage())
	assert.Equal(t, "ubuntu:bionic", platform.NativeBaseImage())
	assert.Equal(t, "bionic", platform.OSDistro())
}

func TestNewPlatformOverrideStillValidatesTarget(t *testing.T) {
	_, err := NewPlatform(t.Context(), PlatformArgs{
		Arch:              "armhf",
		OSName:            "fedora",
		ROSDistro:         "dashing",
		OverrideBaseImage: "custom:latest",
	})
	require.Error(t, err)
	assert.Equal(t, KindInvalidOSForDistro, KindOf(err))
}

func TestNewPlatformKeepsOverrideVerbatim(t *testing.T) {
	tests := []string{
		"MyRegistry/Custom:Tag",
		" arm64v8/ubuntu:bionic ",
		"Not A Valid:Image",
	}
	for _, override := range tests {
		t.Run(override, func(t *testing.T) {
			platform, err := NewPlatform(t.Context(), PlatformArgs{
				Arch:              "aarch64",
				OSName:            "ubuntu",
				ROSDistro:         "eloquent",
				OverrideBaseImage: override,
			})
			require.NoError(t, err)
			assert.True(t, platform.BaseImageOverridden())
			assert.Equal(t, override, platform.TargetBaseImage())
			assert.Equal(t, "ubuntu:bionic", platform.NativeBaseImage())
		})
	}
}

func TestPlatformIdentity(t *testing.T) {
	platform, err := NewPlatform(t.Context(), PlatformArgs{Arch: " aarch64 ", OSName: "ubuntu", ROSDistro: "dashing"})
	require.NoError(t, err)
	assert.Equal(t, "aarch64-ubuntu-dashing", platform.String())
	assert.Equal(t, "builder/aarch64-ubuntu-dashing:latest", platform.SysrootImageTag("builder"))
	assert.Equal(t, "aarch64", platform.Arch())
	assert.Equal(t, "ubuntu", platform.OSName())
	assert.Equal(t, "dashing", platform.ROSDistro())
}

func TestRosdepImageTag(t *testing.T) {
	tests := []struct {
		args PlatformArgs
		want string
	}{
		{PlatformArgs{Arch: "aarch64", OSName: "ubuntu", ROSDistro: "dashing"}, "rcc/rosdep:aarch64-ubuntu-bionic-ros2"},
		{PlatformArgs{Arch: "aarch64", OSName: "ubuntu", ROSDistro: "eloquent"}, "rcc/rosdep:aarch64-ubuntu-bionic-ros2"},
		{PlatformArgs{Arch: "armhf", OSName: "debian", ROSDistro: "melodic"}, "rcc/rosdep:armhf-debian-stretch-ros"},
		{PlatformArgs{Arch: "armhf", OSName: "ubuntu", ROSDistro: "kinetic", OverrideBaseImage: "custom:1"}, "rcc/rosdep:armhf-ubuntu-xenial-ros"},
	}
	for _, tt := range tests {
		platform, err := NewPlatform(t.Context(), tt.args)
		require.NoError(t, err)
		if diff := cmp.Diff(tt.want, RosdepImageTag(platform)); diff != "" {
			t.Fatalf("unexpected rosdep tag (-want +got):\n%s", diff)
		}
	}
}

func TestPlatformTargetPlatform(t *testing.T) {
	platform, err := NewPlatform(t.Context(), PlatformArgs{Arch: "armhf", OSName: "ubuntu", ROSDistro: "melodic"})
	require.NoError(t, err)
	oci, err := platform.TargetPlatform()
	require.NoError(t, err)
	assert.Equal(t, "linux", oci.OS)
	assert.Equal(t, "arm", oci.Architecture)
	assert.Equal(t, "v7", oci.Variant)

	tables := DefaultTargetTables()
	tables.Architectures["riscv64"] = types.ArchitectureSupport{Toolchain: "riscv64-linux-gnu", DockerOrg: "riscv64"}
	riscv, err := NewPlatformWithTables(t.Context(), tables, PlatformArgs{Arch: "riscv64", OSName: "debian", ROSDistro: "eloquent"})
	require.NoError(t, err)
	_, err = riscv.TargetPlatform()
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}
