package schunk

import (
	"github.com/gocaterva/bstore/errs"
	"github.com/gocaterva/bstore/format"
)

// metaAdd implements MetaAdd's size/count checks, shared by Metalayers and
// VLMetalayers add paths (only the size-stability rule differs between
// them, enforced by the caller on update).
func metaAdd(table map[string][]byte, order *[]string, name string, content []byte) error {
	if len(name) == 0 || len(name) > format.MetalayerNameMaxLen {
		return errs.New(errs.ErrInvalidParam, "schunk.MetaAdd").WithInfo("name", name)
	}
	if _, exists := table[name]; exists {
		return errs.ErrMetalayerExists
	}
	if len(*order) >= format.MaxMetalayers {
		return errs.ErrMetalayerFull
	}

	table[name] = append([]byte(nil), content...)
	*order = append(*order, name)

	return nil
}

// MetaAdd adds a fixed-size metalayer: once added, its
// content may only be updated with a same-length replacement, keeping every
// other metalayer's offset in the frame trailer stable.
func (s *SChunk) MetaAdd(name string, content []byte) error {
	return metaAdd(s.metalayers, &s.metalayerOrder, name, content)
}

// MetaUpdate replaces an existing metalayer's content; len(content) must
// equal the original's length.
func (s *SChunk) MetaUpdate(name string, content []byte) error {
	cur, ok := s.metalayers[name]
	if !ok {
		return errs.ErrMetalayerNotFound
	}
	if len(content) != len(cur) {
		return errs.ErrMetalayerTooLarge
	}
	s.metalayers[name] = append([]byte(nil), content...)

	return nil
}

// MetaReplace replaces an existing metalayer's content with no length
// restriction, for callers that reserialize a metalayer's whole payload
// (e.g. the ndarray layer's "caterva" metalayer, whose encoded length
// varies with shape values crossing msgpack's int-width thresholds) rather
// than patching one field of an already-written frame in place.
func (s *SChunk) MetaReplace(name string, content []byte) error {
	if _, ok := s.metalayers[name]; !ok {
		return errs.ErrMetalayerNotFound
	}
	s.metalayers[name] = append([]byte(nil), content...)

	return nil
}

// MetaGet returns a metalayer's content and whether it exists.
func (s *SChunk) MetaGet(name string) ([]byte, bool) {
	v, ok := s.metalayers[name]

	return v, ok
}

// MetaExists reports whether a fixed-size metalayer named name is present.
func (s *SChunk) MetaExists(name string) bool {
	_, ok := s.metalayers[name]

	return ok
}

// MetaNames returns metalayer names in insertion order.
func (s *SChunk) MetaNames() []string {
	return append([]string(nil), s.metalayerOrder...)
}

// VLMetaAdd adds a variable-length metalayer: unlike
// Metalayers, these may grow or shrink freely on update.
func (s *SChunk) VLMetaAdd(name string, content []byte) error {
	return metaAdd(s.vlMetalayers, &s.vlMetalayerOrder, name, content)
}

// VLMetaUpdate replaces a vlmetalayer's content, any length.
func (s *SChunk) VLMetaUpdate(name string, content []byte) error {
	if _, ok := s.vlMetalayers[name]; !ok {
		return errs.ErrMetalayerNotFound
	}
	s.vlMetalayers[name] = append([]byte(nil), content...)

	return nil
}

// VLMetaDelete removes a vlmetalayer.
func (s *SChunk) VLMetaDelete(name string) error {
	if _, ok := s.vlMetalayers[name]; !ok {
		return errs.ErrMetalayerNotFound
	}
	delete(s.vlMetalayers, name)
	for i, n := range s.vlMetalayerOrder {
		if n == name {
			s.vlMetalayerOrder = append(s.vlMetalayerOrder[:i], s.vlMetalayerOrder[i+1:]...)

			break
		}
	}

	return nil
}

// VLMetaGet returns a vlmetalayer's content and whether it exists.
func (s *SChunk) VLMetaGet(name string) ([]byte, bool) {
	v, ok := s.vlMetalayers[name]

	return v, ok
}

// VLMetaExists reports whether a variable-length metalayer named name is
// present.
func (s *SChunk) VLMetaExists(name string) bool {
	_, ok := s.vlMetalayers[name]

	return ok
}
