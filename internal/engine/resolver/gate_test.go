package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/buildfinder/internal/core/domain"
)

func TestGate_Accept_EmptyDigestDropped(t *testing.T) {
	g := NewGate([]string{"zip"}, nil)

	var warnings []string
	logWarn := func(msg string, args ...any) { warnings = append(warnings, msg) }

	c := domain.Checksum{Type: domain.MD5, Value: "d41d8cd98f00b204e9800998ecf8427e", Filename: "empty.txt"}
	assert.False(t, g.Accept(c, []string{"empty.txt"}, logWarn))
	assert.Contains(t, warnings, "skipping checksum with empty digest")
}

func TestGate_Accept_UnknownExtensionStillAccepted(t *testing.T) {
	g := NewGate([]string{"zip"}, nil)

	var warnings []string
	logWarn := func(msg string, args ...any) { warnings = append(warnings, msg) }

	c := domain.Checksum{Type: domain.MD5, Value: "deadbeef", Filename: "thing.xyz"}
	assert.True(t, g.Accept(c, []string{"thing.xyz"}, logWarn))
	assert.Contains(t, warnings, "no recognized archive extension for checksum")
}

func TestGate_Accept_KnownExtensionNoWarning(t *testing.T) {
	g := NewGate([]string{"zip"}, []string{".TAR"})

	logWarn := func(msg string, args ...any) { t.Errorf("unexpected warning: %s", msg) }

	c := domain.Checksum{Type: domain.MD5, Value: "deadbeef", Filename: "thing.tar"}
	assert.True(t, g.Accept(c, []string{"thing.tar"}, logWarn))
}

func TestGate_IsRPM(t *testing.T) {
	g := NewGate(nil, nil)

	assert.True(t, g.IsRPM([]string{"foo-1.0-1.x86_64.rpm"}))
	assert.False(t, g.IsRPM([]string{"foo-1.0-1.tar.gz"}))
}

func TestGate_hasKnownExtension_CaseInsensitive(t *testing.T) {
	g := NewGate([]string{"ZIP"}, nil)

	assert.True(t, g.hasKnownExtension([]string{"archive.ZIP"}))
	assert.True(t, g.hasKnownExtension([]string{"archive.zip"}))
	assert.False(t, g.hasKnownExtension([]string{"archive.jar"}))
}
