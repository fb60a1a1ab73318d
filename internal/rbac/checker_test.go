package rbac

import "testing"

func TestCheckerHas(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("student", "test:submit") {
		t.Error("student should be able to submit tests")
	}
	if c.Has("student", "test:create") {
		t.Error("student must not create tests")
	}
	if !c.Has("moderator", "test:delete") {
		t.Error("moderator should delete tests")
	}
	if !c.Has("admin", "anything:at-all") {
		t.Error("admin wildcard should match everything")
	}
	if c.Has("unknown-role", "test:view") {
		t.Error("unknown role has no permissions")
	}
}

func TestCheckerWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"aide": {"lesson:*"}})
	if !c.Has("aide", "lesson:material") {
		t.Error("prefix wildcard should match")
	}
	if c.Has("aide", "test:view") {
		t.Error("prefix wildcard must not cross resources")
	}
}

func TestCanMutate(t *testing.T) {
	c := NewChecker(nil)
	owner := int64(7)

	if !c.CanMutate("student", 7, &owner, "section:delete") {
		t.Error("owner may always mutate own record")
	}
	if c.CanMutate("student", 8, &owner, "section:delete") {
		t.Error("non-owner student may not delete")
	}
	if !c.CanMutate("moderator", 8, &owner, "section:delete") {
		t.Error("moderator permission should apply")
	}
	// Owner account deleted: FK nulled the reference, permission decides.
	if c.CanMutate("student", 8, nil, "section:delete") {
		t.Error("nil owner must fall through to the permission check")
	}
	if !c.CanMutate("admin", 8, nil, "section:delete") {
		t.Error("admin wildcard should apply with nil owner")
	}
}
