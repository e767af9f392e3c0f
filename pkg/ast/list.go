package ast

import "github.com/oisee/spinc/pkg/srcloc"

// Right-chained linked lists are the canonical sequence representation
// (KindStmtList, KindExprList, KindListHolder): a list is itself a Node of
// the list kind whose Left is the element's content and whose Right is the
// next list cell, or nil at the end (spec.md §3 invariants).

// NewListCell wraps content in a single-element list node of kind.
func NewListCell(kind Kind, content *Node, loc srcloc.Loc) *Node {
	return New(kind, content, nil, loc)
}

// Content returns a list cell's payload (its Left child).
func Content(cell *Node) *Node {
	if cell == nil {
		return nil
	}
	return cell.Left
}

// Next returns the following list cell (its Right child).
func Next(cell *Node) *Node {
	if cell == nil {
		return nil
	}
	return cell.Right
}

// AddToList appends newItem (itself a single list cell, as built by
// NewListCell) to the right spine of list and returns the resulting list
// head. add_to_list(nil, e) == e; add_to_list(l, nil) == l (spec.md §8).
// O(length(list)) — see AddToListEx for the amortized-O(1) bulk form.
func AddToList(list, newItem *Node) *Node {
	if list == nil {
		return newItem
	}
	if newItem == nil {
		return list
	}
	tail := list
	for tail.Right != nil {
		tail = tail.Right
	}
	tail.Right = newItem
	return list
}

// AddToListEx is AddToList with an amortized-O(1) tail pointer the caller
// maintains across repeated calls during bulk construction (spec.md
// §4.2). *tail must be nil on the very first call for a given list, or
// point at the true tail thereafter; AddToListEx keeps it current.
func AddToListEx(list, newItem *Node, tail **Node) *Node {
	if newItem == nil {
		return list
	}
	if list == nil {
		*tail = newItem
		return newItem
	}
	if *tail == nil || (*tail).Right != nil {
		t := list
		for t.Right != nil {
			t = t.Right
		}
		*tail = t
	}
	(*tail).Right = newItem
	*tail = newItem
	return list
}

// ListLen returns the number of cells in the right spine starting at list.
func ListLen(list *Node) int {
	n := 0
	for c := list; c != nil; c = c.Right {
		n++
	}
	return n
}

// ForEachList calls fn with each cell's Content in order, stopping early if
// fn returns false.
func ForEachList(list *Node, fn func(content *Node) bool) {
	for c := list; c != nil; c = c.Right {
		if !fn(Content(c)) {
			return
		}
	}
}

// RemoveFromList unlinks elem from *list by identity (pointer equality),
// updating *list if elem was the head (spec.md §4.2).
func RemoveFromList(list **Node, elem *Node) {
	if *list == nil || elem == nil {
		return
	}
	if *list == elem {
		*list = elem.Right
		elem.Right = nil
		return
	}
	prev := *list
	for prev.Right != nil {
		if prev.Right == elem {
			prev.Right = elem.Right
			elem.Right = nil
			return
		}
		prev = prev.Right
	}
}
