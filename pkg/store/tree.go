package store

import "strings"

// Node is one folder or leaf entry in the store hierarchy.
type Node struct {
	Name     string
	Path     string
	IsFolder bool
	Children []*Node

	index map[string]*Node
}

// BuildTree assembles a flat, lexicographically sorted path listing into a
// nested folder/entry tree rooted at a synthetic folder node. Folders only
// exist because some path requires them; a folder with zero children is
// never produced. Inserting the same path twice is idempotent, and child
// order at every level follows the sorted order of the input.
//
// Callers must pre-sort the paths; List() already returns them sorted.
func BuildTree(paths []string) *Node {
	root := &Node{IsFolder: true, index: make(map[string]*Node)}

	for _, path := range paths {
		if path == "" {
			continue
		}
		segments := strings.Split(path, "/")
		parent := root
		for i, name := range segments {
			last := i == len(segments)-1
			parent = parent.child(name, !last)
		}
	}

	return root
}

// Find walks the tree to the node at path, or nil.
func (n *Node) Find(path string) *Node {
	cur := n
	for _, name := range strings.Split(path, "/") {
		var next *Node
		for _, c := range cur.Children {
			if c.Name == name {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// child returns the existing child with the given name and kind, creating
// it if absent. A leaf and a folder may share a name (on disk, "b.gpg" and
// "b/" can coexist), so the two kinds are tracked separately.
func (n *Node) child(name string, folder bool) *Node {
	key := name
	if folder {
		key += "/"
	}
	if existing, ok := n.index[key]; ok {
		return existing
	}

	childPath := name
	if n.Path != "" {
		childPath = n.Path + "/" + name
	}
	c := &Node{
		Name:     name,
		Path:     childPath,
		IsFolder: folder,
		index:    make(map[string]*Node),
	}
	n.index[key] = c
	n.Children = append(n.Children, c)
	return c
}
