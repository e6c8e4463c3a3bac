// Package document implements the bidirectional mapping between an entity's
// markdown text and its structured form. Every document is partitioned into a
// title line, a body of observation paragraphs, and an optional trailing
// "## Relationships" section with one relationship per line:
//
//	# <EntityName>
//
//	<observation>
//
//	## Relationships
//	- <verb> [[<target>]] <context>
//
// The mutation helpers operate on raw text rather than a materialized struct
// so that content the parser does not recognize survives edits untouched.
package document

import (
	"regexp"
	"strings"

	"github.com/wagnerlima/kg-notebook/internal/models"
)

// RelationshipsHeading begins the relationships section of a document. The
// section lasts until the next "##" heading or end of text.
const RelationshipsHeading = "## Relationships"

// relationshipPattern captures verb, target, and optional trailing context
// from a relationship line. Lines under the heading that do not match are
// skipped, not rejected.
var relationshipPattern = regexp.MustCompile(`^- (.*?) \[\[(.*?)\]\](?: (.*))?`)

// Title renders the seed content of a freshly created entity document.
func Title(name string) string {
	return "# " + name + "\n\n"
}

// RelationshipLine renders a single relationship line without the trailing
// newline. Context is appended after a single space only when non-empty.
func RelationshipLine(verb, target, context string) string {
	line := "- " + verb + " [[" + target + "]]"
	if context != "" {
		line += " " + context
	}
	return line
}

// Decode parses document text into the entity it represents. The parser is a
// line scanner with three states: before the relationships heading any
// non-blank line that is not a heading is an observation; after it, "- "
// lines are parsed as relationships until another "##" heading ends the
// section.
func Decode(name, text string) models.Entity {
	entity := models.Entity{
		Name:          name,
		Observations:  []string{},
		Relationships: []models.Relationship{},
	}

	inRelationships := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, RelationshipsHeading) {
			inRelationships = true
			continue
		}
		if strings.HasPrefix(line, "##") {
			inRelationships = false
		}

		if inRelationships {
			if !strings.HasPrefix(line, "- ") {
				continue
			}
			m := relationshipPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			entity.Relationships = append(entity.Relationships, models.Relationship{
				Source:  name,
				Verb:    m[1],
				Target:  m[2],
				Context: m[3],
			})
		} else if !strings.HasPrefix(line, "#") && strings.TrimSpace(line) != "" {
			entity.Observations = append(entity.Observations, line)
		}
	}

	return entity
}

// AppendObservation inserts observation as a new paragraph before the
// relationships section if one exists, otherwise at the end of the document.
// The inserted text is separated from its neighbors by exactly one blank line
// and leaves a trailing blank line for future appends, so observations always
// precede relationships no matter how many times this is called.
func AppendObservation(text, observation string) string {
	idx := strings.Index(text, RelationshipsHeading)
	if idx < 0 {
		if text != "" {
			text = padToBlankLine(text)
		}
		return text + observation + "\n\n"
	}

	head := padToBlankLine(text[:idx])
	tail := text[idx+len(RelationshipsHeading):]
	return head + observation + "\n\n" + RelationshipsHeading + tail
}

// AppendRelationship appends a relationship line to the relationships
// section, creating the heading at the end of the document when absent.
// Existing relationship lines and their order are preserved.
func AppendRelationship(text, verb, target, context string) string {
	line := RelationshipLine(verb, target, context) + "\n"

	idx := strings.Index(text, RelationshipsHeading)
	if idx < 0 {
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		return text + RelationshipsHeading + "\n" + line
	}

	head := text[:idx]
	tail := text[idx+len(RelationshipsHeading):]
	return head + RelationshipsHeading + strings.TrimRight(tail, " \t\r\n") + "\n" + line
}

// RemoveFirstLine removes the first line for which match returns true.
// At most one line is removed per call; callers delete duplicates by calling
// again. The second return reports whether a line was removed.
func RemoveFirstLine(text string, match func(line string) bool) (string, bool) {
	lines := strings.SplitAfter(text, "\n")
	for i, line := range lines {
		if match(strings.TrimSuffix(line, "\n")) {
			return strings.Join(lines[:i], "") + strings.Join(lines[i+1:], ""), true
		}
	}
	return text, false
}

// RemoveExactLine removes the first line whose trimmed text equals the
// trimmed target.
func RemoveExactLine(text, target string) (string, bool) {
	want := strings.TrimSpace(target)
	return RemoveFirstLine(text, func(line string) bool {
		return strings.TrimSpace(line) == want
	})
}

// RemoveAllReferences strips every line anywhere in the document containing
// the token [[targetName]], regardless of section. Used when cascading an
// entity deletion through the rest of the store.
func RemoveAllReferences(text, targetName string) string {
	token := "[[" + targetName + "]]"
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if !strings.Contains(line, token) {
			b.WriteString(line)
		}
	}
	return b.String()
}

// padToBlankLine extends s so it ends with exactly the blank-line separator
// the document format requires between paragraphs.
func padToBlankLine(s string) string {
	if strings.HasSuffix(s, "\n\n") {
		return s
	}
	if strings.HasSuffix(s, "\n") {
		return s + "\n"
	}
	return s + "\n\n"
}
