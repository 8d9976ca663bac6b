package analyzer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBlocks_NoArrowYieldsNothing(t *testing.T) {
	lines := []string{
		"[INFO] Scanning for projects...",
		"[INFO] Downloading from central: https://repo.maven.apache.org/maven2/...",
		"[INFO] ------------------------------------------------------------------------",
		"[INFO]   org.example:long-artifact-name .....",
		"[INFO] BUILD SUCCESS",
	}
	assert.Empty(t, ExtractBlocks(lines))
}

func TestExtractBlocks_HappyPath(t *testing.T) {
	lines := []string{
		"[INFO] Scanning for projects...",
		"[INFO] some-lib ... 1.2 -> 1.3",
		"done",
	}
	assert.Equal(t, []string{"some-lib ... 1.2 -> 1.3"}, ExtractBlocks(lines))
}

func TestExtractBlocks_MultiLineAnnouncement(t *testing.T) {
	first := "[INFO]   org.springframework.boot:spring-boot-starter-web ..."
	second := "[INFO]                         2.1.0.RELEASE -> 3.0.0"
	lines := []string{
		"[INFO] The following dependencies in Dependencies have newer versions:",
		first,
		"[INFO] Downloading from central: https://repo.maven.apache.org",
		second,
		"[INFO] BUILD SUCCESS",
	}

	blocks := ExtractBlocks(lines)
	require.Len(t, blocks, 1)

	want := strings.TrimSpace(strings.ReplaceAll(first, "[INFO]", "") + strings.ReplaceAll(second, "[INFO]", ""))
	assert.Equal(t, want, blocks[0])
	assert.NotContains(t, blocks[0], "[INFO]")
	assert.NotContains(t, blocks[0], "Downloading")
}

func TestExtractBlocks_SeveralAnnouncements(t *testing.T) {
	lines := []string{
		"[INFO] The following dependencies in Dependencies have newer versions:",
		"[INFO]   junit:junit ........................................ 4.11 -> 4.13.2",
		"[INFO]   org.apache.commons:commons-lang3 .................... 3.1 -> 3.12.0",
		"[INFO]",
		"[INFO] The following dependencies in Plugins have newer versions:",
		"[INFO]   org.apache.maven.plugins:maven-surefire-plugin ...",
		"[INFO]                                              2.12.4 -> 3.2.5",
	}

	blocks := ExtractBlocks(lines)
	require.Len(t, blocks, 3)
	assert.Equal(t, "junit:junit ........................................ 4.11 -> 4.13.2", blocks[0])
	assert.Equal(t, "org.apache.commons:commons-lang3 .................... 3.1 -> 3.12.0", blocks[1])
	assert.True(t, strings.HasPrefix(blocks[2], "org.apache.maven.plugins:maven-surefire-plugin ..."))
	assert.True(t, strings.HasSuffix(blocks[2], "2.12.4 -> 3.2.5"))
}

func TestExtractor_StateMachine(t *testing.T) {
	e := NewExtractor()
	assert.Equal(t, collectingEmpty, e.state)

	// banner never enters the accumulator
	_, sealed := e.Feed("[INFO] Scanning for projects...")
	assert.False(t, sealed)
	assert.Equal(t, collectingEmpty, e.state)

	// unrelated noise is ignored
	_, sealed = e.Feed("[INFO] Building demo 1.0-SNAPSHOT")
	assert.False(t, sealed)
	assert.Equal(t, collectingEmpty, e.state)

	_, sealed = e.Feed("[INFO]   com.example:thing ....")
	assert.False(t, sealed)
	assert.Equal(t, collectingNonEmpty, e.state)

	block, sealed := e.Feed("[INFO]        1.0 -> 1.1")
	assert.True(t, sealed)
	assert.Equal(t, "com.example:thing ....        1.0 -> 1.1", block)
	assert.Equal(t, collectingEmpty, e.state)
	assert.Equal(t, "", e.Close())
}

func TestExtractor_UnsealedBlockDroppedAtEnd(t *testing.T) {
	e := NewExtractor()
	_, sealed := e.Feed("[INFO]   com.example:truncated ....")
	require.False(t, sealed)

	assert.Equal(t, "   com.example:truncated ....", e.Close())
	assert.Equal(t, collectingEmpty, e.state)

	assert.Empty(t, ExtractBlocks([]string{"[INFO]   com.example:truncated ...."}))
}

func TestExtractor_ArrowWithoutLeader(t *testing.T) {
	assert.Equal(t, []string{"group:artifact:jar 1.0.0 -> 2.0.0"},
		ExtractBlocks([]string{"group:artifact:jar 1.0.0 -> 2.0.0"}))
}
