package podman

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildCommandArgs(t *testing.T) {
	args := BuildCommandArgs("/etc/zerolayer", "/var/cache/zerolayer/boot_env.12345678.tar.gz", "", nil)
	assert.Equal(t, []string{
		"build",
		"-t", "oci-archive:/var/cache/zerolayer/boot_env.12345678.tar.gz",
		"/etc/zerolayer",
	}, args)
}

func TestBuildCommandArgs_SortedBuildArgs(t *testing.T) {
	args := BuildCommandArgs("/src", "/out.tar.gz", "", map[string]string{
		"ZETA":  "z",
		"ALPHA": "a",
	})
	assert.Equal(t, []string{
		"build",
		"--build-arg", "ALPHA=a",
		"--build-arg", "ZETA=z",
		"-t", "oci-archive:/out.tar.gz",
		"/src",
	}, args)
}

func TestBuildCommandArgs_ContainerfileOverride(t *testing.T) {
	args := BuildCommandArgs("/src", "/out.tar.gz", "Containerfile.dev", nil)
	assert.Equal(t, []string{
		"build",
		"-f", "Containerfile.dev",
		"-t", "oci-archive:/out.tar.gz",
		"/src",
	}, args)
}

func TestBuild_MissingBinary(t *testing.T) {
	c := NewClient(nil)
	c.Binary = "podman-definitely-not-installed"

	err := c.Build(context.Background(), "/src", "/out.tar.gz", nil)
	assert.ErrorIs(t, err, ErrPodmanNotFound)
}
