package dom

// WalkStatus tells Walk how to proceed.
type WalkStatus int

const (
	WalkContinue WalkStatus = iota
	WalkSkipChildren
	WalkStop
)

// Walker is called twice for every element node: when entering and when
// leaving it. Text nodes are visited with entering set and then with it
// cleared, same as elements.
type Walker func(e *Element, entering bool) (WalkStatus, error)

// Walk traverses subtree depth first.
func Walk(e *Element, fn Walker) error {
	_, err := walk(e, fn)
	return err
}

func walk(e *Element, fn Walker) (WalkStatus, error) {
	status, err := fn(e, true)
	if err != nil || status == WalkStop {
		return status, err
	}
	if status != WalkSkipChildren {
		for _, c := range e.children {
			if st, err := walk(c, fn); err != nil || st == WalkStop {
				return WalkStop, err
			}
		}
	}
	if status, err := fn(e, false); err != nil || status == WalkStop {
		return WalkStop, err
	}
	return WalkContinue, nil
}
