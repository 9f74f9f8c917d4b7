package catalog

// NoCase marks a form node that groups children instead of naming a case.
const NoCase = -1

// FormNode is one entry of the browsing tree: a leaf naming a case id, or a
// group (CaseID == NoCase) holding children.
type FormNode struct {
	Name     string
	CaseID   int
	Children []FormNode
}

// Leaf builds a node pointing at a case.
func Leaf(name string, caseID int) FormNode {
	return FormNode{Name: name, CaseID: caseID}
}

// Group builds a node holding children.
func Group(name string, children ...FormNode) FormNode {
	return FormNode{Name: name, CaseID: NoCase, Children: children}
}

// IsLeaf reports whether the node names a case.
func (n FormNode) IsLeaf() bool {
	return n.CaseID != NoCase
}

// CloneForm deep-copies a form tree.
func CloneForm(form []FormNode) []FormNode {
	if form == nil {
		return nil
	}
	out := make([]FormNode, len(form))
	for i, node := range form {
		out[i] = FormNode{Name: node.Name, CaseID: node.CaseID, Children: CloneForm(node.Children)}
	}
	return out
}

// LeafIDs returns every case id referenced by the tree in depth-first order.
func LeafIDs(form []FormNode) []int {
	var ids []int
	var walk func([]FormNode)
	walk = func(nodes []FormNode) {
		for _, n := range nodes {
			if n.IsLeaf() {
				ids = append(ids, n.CaseID)
			}
			walk(n.Children)
		}
	}
	walk(form)
	return ids
}
