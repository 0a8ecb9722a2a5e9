package remap

import "github.com/pkg/errors"

// MappingLookup is the read-only side of a name dictionary in the
// source-to-destination direction. Implementations must be pure and
// non-blocking; a missing entry is not an error, it simply means "no
// rename" and the source name is returned.
//
// Implementations are free to handle class hierarchies (see
// HierarchyAwareDelegator) or to treat every member as independent (see
// SimpleMappingLookup); MappingLookup itself makes no promise either
// way. Because GetRemappedMethodName is routinely called with
// constructors (<init>) and static initializers (<clinit>), an
// implementation must never refuse such a query — only MappingSink may
// reject a write.
type MappingLookup interface {
	// GetRemappedClassName returns the destination internal name for
	// srcName, or srcName itself if no mapping exists. Never fails.
	GetRemappedClassName(srcName string) string

	// GetRemappedClassNameFast returns the destination internal name
	// for srcName, or "", false if no mapping exists. This lets hot
	// paths skip string-building work entirely when nothing changed;
	// it is always valid for an implementation to define this as
	// GetRemappedClassName plus an equality check against srcName.
	GetRemappedClassNameFast(srcName string) (dst string, changed bool)

	// GetRemappedFieldName returns the destination simple name for the
	// field identified by (srcOwner, srcName, srcDesc), or srcName if
	// unmapped.
	GetRemappedFieldName(srcOwner, srcName, srcDesc string) string

	// GetRemappedMethodName returns the destination simple name for the
	// method identified by (srcOwner, srcName, srcDesc), or srcName if
	// unmapped.
	GetRemappedMethodName(srcOwner, srcName, srcDesc string) string
}

// MappingSink is the write side of a name dictionary. Implementations
// that also implement MappingLookup must enforce the <init>/<clinit>
// restrictions documented on RemapMember; violations are reported as
// errors rather than being silently ignored, since a caller requesting
// such a rename has supplied invalid input.
type MappingSink interface {
	// RemapClass records that srcName should be rewritten to dstName.
	RemapClass(srcName, dstName string) MappingSink

	// RemapMember records that srcRef should be rewritten to dstName.
	// For method refs (srcRef.IsMethod()):
	//   - renaming to "<init>" or "<clinit>" is rejected unless dstName
	//     equals srcRef.Name (a no-op you'd otherwise wonder why anyone
	//     would request, but it is harmless so it is allowed through);
	//   - renaming *from* "<init>" or "<clinit>" is always rejected.
	// For field refs, no name restrictions apply.
	//
	// RemapMember panics via errors.Wrap-annotated error only when
	// asked to perform an illegal rename; see RemapMemberChecked for a
	// non-panicking variant used internally and recommended for
	// callers that do not control their input.
	RemapMember(srcRef MemberRef, dstName string) MappingSink
}

// ErrIllegalMemberRename is returned (wrapped with context) when a
// caller asks a MappingSink to rename a method to or from an
// initializer name in a way that isn't a no-op.
var ErrIllegalMemberRename = errors.New("illegal member rename request")

// SimpleMappingLookup is a straightforward in-memory MappingLookup and
// MappingSink: every field and method is considered independent, with
// no notion of override or inheritance. Callers that want inheritance
// to propagate a single rename to every override should wrap this type
// in a HierarchyAwareDelegator instead of expecting this type to do it.
//
// Concurrency: every query and every sink call takes the internal
// mutex, a github.com/sasha-s/go-deadlock *sync.RWMutex* rather than
// the stdlib's, so concurrent reads and writes are serialized instead
// of racing on the maps. Which mappings a ClassRewriter sees when the
// dictionary is mutated from another goroutine during a rewrite is not
// defined. The deadlock detector reports lock-ordering problems and
// locks held or awaited too long; it does not flag such a write.
type SimpleMappingLookup struct {
	mu          deadlockRWMutex
	classNames  map[string]string
	memberNames map[MemberRef]string
}

// NewSimpleMappingLookup returns an empty SimpleMappingLookup ready for
// use as both a MappingLookup and a MappingSink.
func NewSimpleMappingLookup() *SimpleMappingLookup {
	return &SimpleMappingLookup{
		classNames:  make(map[string]string),
		memberNames: make(map[MemberRef]string),
	}
}

var _ MappingLookup = (*SimpleMappingLookup)(nil)
var _ MappingSink = (*SimpleMappingLookup)(nil)

func (s *SimpleMappingLookup) GetRemappedClassName(srcName string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if dst, ok := s.classNames[srcName]; ok {
		return dst
	}
	return srcName
}

func (s *SimpleMappingLookup) GetRemappedClassNameFast(srcName string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dst, ok := s.classNames[srcName]
	return dst, ok
}

func (s *SimpleMappingLookup) GetRemappedFieldName(srcOwner, srcName, srcDesc string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if dst, ok := s.memberNames[NewMemberRef(srcOwner, srcName, srcDesc)]; ok {
		return dst
	}
	return srcName
}

func (s *SimpleMappingLookup) GetRemappedMethodName(srcOwner, srcName, srcDesc string) string {
	return s.GetRemappedFieldName(srcOwner, srcName, srcDesc)
}

func (s *SimpleMappingLookup) RemapClass(srcName, dstName string) MappingSink {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classNames[srcName] = dstName
	return s
}

// RemapMember implements MappingSink. It panics on an illegal rename
// request, matching the source behavior of throwing an unchecked
// exception for programmer error; callers that need a recoverable
// error should call RemapMemberChecked instead.
func (s *SimpleMappingLookup) RemapMember(srcRef MemberRef, dstName string) MappingSink {
	if err := s.RemapMemberChecked(srcRef, dstName); err != nil {
		panic(err)
	}
	return s
}

// RemapMemberChecked is the non-panicking twin of RemapMember: it
// returns ErrIllegalMemberRename (wrapped with the offending reference)
// instead of panicking, and otherwise has identical semantics.
func (s *SimpleMappingLookup) RemapMemberChecked(srcRef MemberRef, dstName string) error {
	if srcRef.IsMethod() {
		if dstName == "<init>" || dstName == "<clinit>" {
			if dstName != srcRef.Name {
				return errors.Wrapf(ErrIllegalMemberRename, "rename %s to %q", srcRef, dstName)
			}
			// A no-op request (renaming <init> to <init>, say). Letting
			// it through costs nothing and saves the caller from having
			// to special-case it.
			return nil
		}
		if srcRef.Name == "<init>" || srcRef.Name == "<clinit>" {
			return errors.Wrapf(ErrIllegalMemberRename, "rename %s to %q", srcRef, dstName)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberNames[srcRef] = dstName
	return nil
}
