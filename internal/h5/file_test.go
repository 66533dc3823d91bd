package h5

import (
	"errors"
	"testing"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	f, err := NewFile(NewMemStore())
	if err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}
	return f
}

func TestFile_RootExists(t *testing.T) {
	store := NewMemStore()
	if _, err := NewFile(store); err != nil {
		t.Fatalf("NewFile returned error: %v", err)
	}
	n, err := store.GetNode("")
	if err != nil {
		t.Fatalf("root node missing: %v", err)
	}
	if n.Kind != KindGroup {
		t.Errorf("root kind = %v, want KindGroup", n.Kind)
	}
}

func TestGroup_CreateGroupAndChild(t *testing.T) {
	f := newTestFile(t)
	entry, err := f.Root().CreateGroup("entry")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	if entry.Path() != "entry" {
		t.Errorf("Path = %q, want %q", entry.Path(), "entry")
	}

	obj, err := f.Root().Child("entry")
	if err != nil {
		t.Fatalf("Child returned error: %v", err)
	}
	if _, ok := obj.(*Group); !ok {
		t.Errorf("Child(entry) = %T, want *Group", obj)
	}
}

func TestGroup_CreateDatasetValue(t *testing.T) {
	f := newTestFile(t)
	ds, err := f.Root().CreateDataset("title", "Sample A")
	if err != nil {
		t.Fatalf("CreateDataset returned error: %v", err)
	}
	v, err := ds.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if v != "Sample A" {
		t.Errorf("Value = %v, want %q", v, "Sample A")
	}
}

func TestGroup_CreateDatasetRejectsComplexValue(t *testing.T) {
	f := newTestFile(t)
	_, err := f.Root().CreateDataset("bad", map[string]any{"a": 1})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
	_, err = f.Root().CreateDataset("mixed", []any{"a", 1})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("mixed slice err = %v, want ErrUnsupportedType", err)
	}
	_, err = f.Root().CreateDataset("homogeneous", []any{"a", "b"})
	if err != nil {
		t.Errorf("homogeneous slice err = %v, want nil", err)
	}
}

func TestGroup_CreateDuplicateName(t *testing.T) {
	f := newTestFile(t)
	if _, err := f.Root().CreateGroup("entry"); err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	_, err := f.Root().CreateGroup("entry")
	if !errors.Is(err, ErrExists) {
		t.Errorf("second CreateGroup err = %v, want ErrExists", err)
	}
	_, err = f.Root().CreateDataset("entry", 1)
	if !errors.Is(err, ErrExists) {
		t.Errorf("CreateDataset over group err = %v, want ErrExists", err)
	}
}

func TestObject_AttrRoundTrip(t *testing.T) {
	f := newTestFile(t)
	entry, err := f.Root().CreateGroup("entry")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	if err := entry.SetAttr("NX_Class", "NXEntry"); err != nil {
		t.Fatalf("SetAttr returned error: %v", err)
	}
	v, err := entry.Attr("NX_Class")
	if err != nil {
		t.Fatalf("Attr returned error: %v", err)
	}
	if v != "NXEntry" {
		t.Errorf("Attr = %v, want %q", v, "NXEntry")
	}

	if _, err := entry.Attr("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing attr err = %v, want ErrNotFound", err)
	}
}

func TestObject_SetAttrRejectsComplexValue(t *testing.T) {
	f := newTestFile(t)
	err := f.Root().SetAttr("bad", map[string]any{"a": 1})
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("err = %v, want ErrUnsupportedType", err)
	}
}

func TestGroup_LinkResolvesToTarget(t *testing.T) {
	f := newTestFile(t)
	bluesky, err := f.Root().CreateGroup("bluesky")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	ds, err := bluesky.CreateDataset("gup_number", int64(17))
	if err != nil {
		t.Fatalf("CreateDataset returned error: %v", err)
	}
	entry, err := f.Root().CreateGroup("entry")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	if err := entry.Link("GUPNumber", ds); err != nil {
		t.Fatalf("Link returned error: %v", err)
	}

	obj, err := entry.Child("GUPNumber")
	if err != nil {
		t.Fatalf("Child returned error: %v", err)
	}
	if obj.Path() != "bluesky/gup_number" {
		t.Errorf("resolved path = %q, want %q", obj.Path(), "bluesky/gup_number")
	}
	target, ok := obj.(*Dataset)
	if !ok {
		t.Fatalf("Child(GUPNumber) = %T, want *Dataset", obj)
	}
	v, err := target.Value()
	if err != nil {
		t.Fatalf("Value returned error: %v", err)
	}
	if v != int64(17) {
		t.Errorf("Value = %v, want 17", v)
	}

	// Attributes written through the alias land on the target node.
	if err := obj.SetAttr("units", "count"); err != nil {
		t.Fatalf("SetAttr via alias returned error: %v", err)
	}
	v, err = ds.Attr("units")
	if err != nil {
		t.Fatalf("Attr on target returned error: %v", err)
	}
	if v != "count" {
		t.Errorf("target attr = %v, want %q", v, "count")
	}
}

func TestGroup_ChildrenCreationOrder(t *testing.T) {
	f := newTestFile(t)
	entry, err := f.Root().CreateGroup("entry")
	if err != nil {
		t.Fatalf("CreateGroup returned error: %v", err)
	}
	for _, name := range []string{"zulu", "alpha", "mike"} {
		if _, err := entry.CreateGroup(name); err != nil {
			t.Fatalf("CreateGroup(%s) returned error: %v", name, err)
		}
	}
	names, err := entry.Children()
	if err != nil {
		t.Fatalf("Children returned error: %v", err)
	}
	want := []string{"zulu", "alpha", "mike"}
	if len(names) != len(want) {
		t.Fatalf("children = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("children[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestFile_ChildNotFound(t *testing.T) {
	f := newTestFile(t)
	_, err := f.Root().Child("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
