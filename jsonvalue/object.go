package jsonvalue

// Member is a single key/value pair of an object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered JSON object. Keys are unique; setting an existing key
// replaces its value and keeps its original position.
//
// An object becomes read-only once it is wrapped by ObjectValue.
type Object struct {
	members  []Member
	index    map[string]int
	readOnly bool
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{index: make(map[string]int)}
}

// Set adds or replaces a member. It panics if the object is read-only.
func (o *Object) Set(key string, value Value) {
	if o.readOnly {
		panic("jsonvalue: Set called on a read-only object")
	}
	if i, ok := o.index[key]; ok {
		o.members[i].Value = value
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: value})
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	i, ok := o.index[key]
	if !ok {
		return Value{}, false
	}
	return o.members[i].Value, true
}

// Has reports whether key is present, whatever its value.
func (o *Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o.index[key]
	return ok
}

// ReadOnly reports whether Set is disallowed.
func (o *Object) ReadOnly() bool {
	return o == nil || o.readOnly
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Keys returns the member keys in order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, o.Len())
	o.Range(func(key string, _ Value) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}

// Members returns a copy of the members in order.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}
	out := make([]Member, len(o.members))
	copy(out, o.members)
	return out
}

// Range calls fn for each member in order until fn returns false.
func (o *Object) Range(fn func(key string, value Value) bool) {
	if o == nil {
		return
	}
	for _, m := range o.members {
		if !fn(m.Key, m.Value) {
			return
		}
	}
}
