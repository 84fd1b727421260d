package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// ErrVersionNotFound is returned when a named version isn't in the document.
var ErrVersionNotFound = errors.New("version not found")

// Document is the version list read by the update checker. Versions live at
// the top level next to the package object:
//
//	{
//	  "package": {"downloadUrl": "https://example.com/app.apk"},
//	  "1.0": {"versionCode": 1, "changelog": ["first release"]}
//	}
//
// The zero value is a document that hasn't been loaded.
type Document struct {
	loaded   bool
	root     Value
	pkg      *Value
	versions map[string]Value
}

// Load parses a version list from r. It fails with a FormatError if the
// input isn't a single JSON value or the top-level value isn't an object. A missing package
// object is tolerated here and reported by validation instead.
func Load(r io.Reader) (*Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, NewFormatError("parsing version list: %v", err)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, NewFormatError("parsing version list: unexpected data after top-level value")
	}

	doc := NewDocument(NewValue(raw))
	if !doc.IsObject() {
		return nil, NewFormatError("Document is not a JSON object")
	}

	return doc, nil
}

// NewDocument builds a loaded document from an already decoded value without
// checking its shape.
func NewDocument(root Value) *Document {
	doc := &Document{
		loaded: true,
		root:   root,
	}

	members, err := root.AsObject()
	if err != nil {
		return doc
	}

	doc.versions = make(map[string]Value, len(members))
	for name, v := range members {
		if name == KeyPackage {
			pkg := v
			doc.pkg = &pkg
			continue
		}
		doc.versions[name] = v
	}

	return doc
}

// Empty returns a loaded document with no package and no versions, used when
// a release is added to a file that doesn't exist yet.
func Empty() *Document {
	return &Document{
		loaded:   true,
		root:     NewValue(map[string]interface{}{}),
		versions: map[string]Value{},
	}
}

// Loaded reports whether the document was loaded or created.
func (d *Document) Loaded() bool {
	return d != nil && d.loaded
}

// IsObject reports whether the top-level value was a JSON object.
func (d *Document) IsObject() bool {
	return d.Loaded() && d.versions != nil
}

// Package returns the raw package value and whether the key was present.
func (d *Document) Package() (Value, bool) {
	if d == nil || d.pkg == nil {
		return Value{}, false
	}
	return *d.pkg, true
}

// SetDownloadURL sets package.downloadUrl, creating the package object if
// there isn't one. Other package keys are left alone.
func (d *Document) SetDownloadURL(url string) error {
	if !d.IsObject() {
		return NewFormatError("Document is not a JSON object")
	}

	if d.pkg != nil {
		if m, ok := d.pkg.raw.(map[string]interface{}); ok {
			m[KeyDownloadURL] = url
			return nil
		}
	}

	pkg := NewValue(map[string]interface{}{KeyDownloadURL: url})
	d.pkg = &pkg
	return nil
}

// DownloadURL returns package.downloadUrl. Validate the document first: a
// missing package or key is a FormatError.
func (d *Document) DownloadURL() (string, error) {
	if !d.Loaded() {
		return "", errNotLoaded()
	}

	pkg, ok := d.Package()
	if !ok {
		return "", NewFormatError("missing %s key", KeyPackage)
	}

	members, err := pkg.AsObject()
	if err != nil {
		return "", NewFormatError("%s is not a JSON object", KeyPackage)
	}

	raw, ok := members[KeyDownloadURL]
	if !ok {
		return "", NewFormatError("missing %s key in %s object", KeyDownloadURL, KeyPackage)
	}

	url, err := raw.AsString()
	if err != nil {
		return "", NewFormatError("%s in %s object is not a string", KeyDownloadURL, KeyPackage)
	}

	return url, nil
}

// Versions returns every version name in alphabetical order.
func (d *Document) Versions() []string {
	if d == nil {
		return nil
	}

	names := make([]string, 0, len(d.versions))
	for name := range d.versions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Version returns the raw value stored under a version name.
func (d *Document) Version(name string) (Value, bool) {
	if d == nil {
		return Value{}, false
	}
	v, ok := d.versions[name]
	return v, ok
}

// Entry returns the typed entry for a version name.
func (d *Document) Entry(name string) (ReleaseEntry, error) {
	v, ok := d.Version(name)
	if !ok {
		return ReleaseEntry{}, fmt.Errorf("%w: %s", ErrVersionNotFound, name)
	}

	members, err := v.AsObject()
	if err != nil {
		return ReleaseEntry{}, NewFormatError("value for version '%s' is not a JSON object", name)
	}

	code, err := members[KeyVersionCode].AsInt()
	if err != nil {
		return ReleaseEntry{}, NewFormatError("version code in key %s of version '%s' is not an int", KeyVersionCode, name)
	}

	changelog, err := members[KeyChangelog].AsStrings()
	if err != nil {
		return ReleaseEntry{}, NewFormatError("key %s in version '%s' is not a list of strings", KeyChangelog, name)
	}

	return ReleaseEntry{VersionCode: code, Changelog: changelog}, nil
}

// VersionsSorted returns the version names ordered by ascending version
// code. Names sharing a code keep alphabetical order.
func (d *Document) VersionsSorted() ([]string, error) {
	if !d.Loaded() {
		return nil, errNotLoaded()
	}
	if !d.IsObject() {
		return nil, NewFormatError("Document is not a JSON object")
	}

	names := d.Versions()
	codes := make(map[string]int64, len(names))
	for _, name := range names {
		code, err := d.versionCode(name)
		if err != nil {
			return nil, err
		}
		codes[name] = code
	}

	sort.SliceStable(names, func(i, j int) bool {
		return codes[names[i]] < codes[names[j]]
	})

	return names, nil
}

// LatestVersion returns the version with the highest version code.
func (d *Document) LatestVersion() (Release, error) {
	names, err := d.VersionsSorted()
	if err != nil {
		return Release{}, err
	}
	if len(names) == 0 {
		return Release{}, ErrNoVersions
	}

	name := names[len(names)-1]
	entry, err := d.Entry(name)
	if err != nil {
		return Release{}, err
	}

	return Release{Name: name, Entry: entry}, nil
}

// AddRelease adds a new version. The code must be an integer and the name
// must not already be listed; on failure the document is unchanged.
func (d *Document) AddRelease(code, name string, changelog []string) error {
	if d.Loaded() && !d.IsObject() {
		return NewFormatError("Document is not a JSON object")
	}
	if !d.loaded {
		d.loaded = true
		d.versions = map[string]Value{}
	}

	if _, ok := d.versions[name]; ok {
		return NewDuplicateVersionError(name)
	}

	versionCode, err := strconv.ParseInt(strings.TrimSpace(code), 10, 64)
	if err != nil {
		return NewFormatError("version code %q is not an int", code)
	}

	notes := make([]interface{}, len(changelog))
	for i, line := range changelog {
		notes[i] = line
	}

	d.versions[name] = NewValue(map[string]interface{}{
		KeyVersionCode: versionCode,
		KeyChangelog:   notes,
	})

	return nil
}

// Serialize writes the document as a single JSON object indented by two
// spaces. The package comes first, followed by versions in version code
// order.
func (d *Document) Serialize(w io.Writer) error {
	if !d.Loaded() {
		return errNotLoaded()
	}
	if !d.IsObject() {
		return NewFormatError("Document is not a JSON object")
	}

	var buf bytes.Buffer
	buf.WriteString("{")

	first := true
	writeMember := func(key string, v Value) error {
		if !first {
			buf.WriteString(",")
		}
		first = false

		k, err := marshalIndent(key)
		if err != nil {
			return err
		}
		val, err := marshalIndent(v.raw)
		if err != nil {
			return fmt.Errorf("marshalling %q: %w", key, err)
		}

		buf.WriteString("\n  ")
		buf.Write(k)
		buf.WriteString(": ")
		buf.Write(val)
		return nil
	}

	if d.pkg != nil {
		if err := writeMember(KeyPackage, *d.pkg); err != nil {
			return err
		}
	}
	for _, name := range d.serializeOrder() {
		if err := writeMember(name, d.versions[name]); err != nil {
			return err
		}
	}

	if !first {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("writing version list: %w", err)
	}
	return nil
}

// serializeOrder sorts by version code where one is readable and places
// malformed entries last, so unvalidated documents still serialize.
func (d *Document) serializeOrder() []string {
	names := d.Versions()

	codes := make(map[string]int64, len(names))
	valid := make(map[string]bool, len(names))
	for _, name := range names {
		if code, err := d.versionCode(name); err == nil {
			codes[name] = code
			valid[name] = true
		}
	}

	sort.SliceStable(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if valid[a] != valid[b] {
			return valid[a]
		}
		return codes[a] < codes[b]
	})

	return names
}

func (d *Document) versionCode(name string) (int64, error) {
	members, err := d.versions[name].AsObject()
	if err != nil {
		return 0, NewFormatError("value for version '%s' is not a JSON object", name)
	}

	code, err := members[KeyVersionCode].AsInt()
	if err != nil {
		return 0, NewFormatError("version code in key %s of version '%s' is not an int", KeyVersionCode, name)
	}

	return code, nil
}

// marshalIndent encodes v at the second nesting level without escaping
// HTML characters, so download URLs stay readable.
func marshalIndent(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("  ", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
