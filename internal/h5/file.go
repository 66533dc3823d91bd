package h5

import (
	"errors"
	"fmt"
	"strings"
)

// File wraps a Store with group and dataset handle semantics. The file's
// lifetime is owned by the caller: File never closes its store.
type File struct {
	store Store
}

// NewFile binds a store and ensures the root group exists.
func NewFile(store Store) (*File, error) {
	if _, err := store.GetNode(""); err != nil {
		if !errors.Is(err, ErrNotFound) {
			return nil, err
		}
		if err := store.PutNode(&Node{Path: "", Kind: KindGroup}); err != nil {
			return nil, err
		}
	}
	return &File{store: store}, nil
}

// Root returns a handle to the root group.
func (f *File) Root() *Group {
	return &Group{file: f}
}

// Object is a handle to a group or dataset. Handles obtained through
// Child have link aliases already resolved, so attribute writes through
// an alias land on the target node.
type Object interface {
	Path() string
	File() *File
	SetAttr(name string, value any) error
	Attr(name string) (any, error)
}

// Group is a handle to a group node.
type Group struct {
	file *File
	path string
}

// Dataset is a handle to a dataset node.
type Dataset struct {
	file *File
	path string
}

func (g *Group) Path() string { return g.path }
func (g *Group) File() *File  { return g.file }

func (d *Dataset) Path() string { return d.path }
func (d *Dataset) File() *File  { return d.file }

func join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

func splitPath(path string) (parent, name string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// Child resolves a named child of the group, following link aliases to
// their target node.
func (g *Group) Child(name string) (Object, error) {
	return g.file.object(join(g.path, name))
}

func (f *File) object(path string) (Object, error) {
	n, err := f.store.GetNode(path)
	if err != nil {
		return nil, err
	}
	for n.Kind == KindLink {
		n, err = f.store.GetNode(n.Target)
		if err != nil {
			return nil, err
		}
	}
	if n.Kind == KindDataset {
		return &Dataset{file: f, path: n.Path}, nil
	}
	return &Group{file: f, path: n.Path}, nil
}

func (g *Group) create(n *Node) error {
	if _, err := g.file.store.GetNode(n.Path); err == nil {
		return fmt.Errorf("%s: %w", n.Path, ErrExists)
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}
	return g.file.store.PutNode(n)
}

// CreateGroup creates an empty child group.
func (g *Group) CreateGroup(name string) (*Group, error) {
	p := join(g.path, name)
	if err := g.create(&Node{Path: p, Kind: KindGroup}); err != nil {
		return nil, err
	}
	return &Group{file: g.file, path: p}, nil
}

// CreateDataset creates a child dataset holding value. Values the format
// cannot hold natively are rejected with ErrUnsupportedType.
func (g *Group) CreateDataset(name string, value any) (*Dataset, error) {
	p := join(g.path, name)
	if !nativeValue(value) {
		return nil, fmt.Errorf("dataset %s: %T: %w", p, value, ErrUnsupportedType)
	}
	if err := g.create(&Node{Path: p, Kind: KindDataset, Value: value}); err != nil {
		return nil, err
	}
	return &Dataset{file: g.file, path: p}, nil
}

// Link creates a named alias under the group resolving to target.
func (g *Group) Link(name string, target Object) error {
	return g.create(&Node{Path: join(g.path, name), Kind: KindLink, Target: target.Path()})
}

// Children lists child names in creation order. Link aliases appear
// under their own name.
func (g *Group) Children() ([]string, error) {
	return g.file.store.ListChildren(g.path)
}

func (g *Group) SetAttr(name string, value any) error {
	return g.file.setAttr(g.path, name, value)
}

func (g *Group) Attr(name string) (any, error) {
	return g.file.attr(g.path, name)
}

func (d *Dataset) SetAttr(name string, value any) error {
	return d.file.setAttr(d.path, name, value)
}

func (d *Dataset) Attr(name string) (any, error) {
	return d.file.attr(d.path, name)
}

// Value returns the dataset's stored payload.
func (d *Dataset) Value() (any, error) {
	n, err := d.file.store.GetNode(d.path)
	if err != nil {
		return nil, err
	}
	return n.Value, nil
}

func (f *File) setAttr(path, name string, value any) error {
	if !nativeValue(value) {
		return fmt.Errorf("attribute %s@%s: %T: %w", path, name, value, ErrUnsupportedType)
	}
	n, err := f.store.GetNode(path)
	if err != nil {
		return err
	}
	if n.Attrs == nil {
		n.Attrs = make(map[string]any)
	}
	n.Attrs[name] = value
	return f.store.PutNode(n)
}

func (f *File) attr(path, name string) (any, error) {
	n, err := f.store.GetNode(path)
	if err != nil {
		return nil, err
	}
	v, ok := n.Attrs[name]
	if !ok {
		return nil, fmt.Errorf("attribute %s@%s: %w", path, name, ErrNotFound)
	}
	return v, nil
}
