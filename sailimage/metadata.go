package sailimage

import "fmt"

// MetaDataNode is one entry of an image's metadata. The original design
// used a singly-linked list; per spec §9's "Cyclic / linked structures"
// design note this module instead stores an owned slice of nodes on Image,
// which is simpler and friendlier to Go's ownership discipline while
// preserving the observable API: traverse in insertion order, append at
// the tail.
type MetaDataNode struct {
	Key MetaDataKey

	// KeyUnknown holds the codec-defined key string; it is set iff
	// Key == MetaDataUnknown (INV-3).
	KeyUnknown string

	Value Variant
}

// NewMetaDataFromKnownData builds a node for a well-known key holding a
// Data variant.
func NewMetaDataFromKnownData(key MetaDataKey, data []byte) MetaDataNode {
	return MetaDataNode{Key: key, Value: NewData(data)}
}

// NewMetaDataFromUnknownData builds a node for a codec-defined key string
// holding a Data variant.
func NewMetaDataFromUnknownData(key string, data []byte) MetaDataNode {
	return MetaDataNode{Key: MetaDataUnknown, KeyUnknown: key, Value: NewData(data)}
}

// NewMetaDataFromKnownString builds a node for a well-known key holding a
// String variant.
func NewMetaDataFromKnownString(key MetaDataKey, s string) MetaDataNode {
	return MetaDataNode{Key: key, Value: NewString(s)}
}

// NewMetaDataFromUnknownString builds a node for a codec-defined key string
// holding a String variant.
func NewMetaDataFromUnknownString(key string, s string) MetaDataNode {
	return MetaDataNode{Key: MetaDataUnknown, KeyUnknown: key, Value: NewString(s)}
}

// Validate checks INV-3: KeyUnknown must be set iff Key is MetaDataUnknown.
func (n MetaDataNode) Validate() error {
	if (n.Key == MetaDataUnknown) != (n.KeyUnknown != "") {
		return fmt.Errorf("sailimage: metadata node key/key_unknown mismatch for key %s", n.Key)
	}
	return nil
}

// Copy returns a deep copy of the node.
func (n MetaDataNode) Copy() MetaDataNode {
	cp := n
	cp.Value = n.Value.Copy()
	return cp
}
