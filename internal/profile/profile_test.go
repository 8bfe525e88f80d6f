package profile

import "testing"

func TestLookupOrder(t *testing.T) {
	set := NewSet(
		&Profile{Name: "by-user", AllowedUserIDs: []int64{42}},
		&Profile{Name: "by-chat", AllowedChatIDs: []int64{100}},
	)

	tests := []struct {
		name   string
		chatID int64
		userID int64
		want   string
		found  bool
	}{
		{"user matches first profile", 100, 42, "by-user", true},
		{"chat only", 100, 7, "by-chat", true},
		{"user only", 1, 42, "by-user", true},
		{"unknown", 1, 7, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := set.Lookup(tt.chatID, tt.userID)
			if ok != tt.found {
				t.Fatalf("Lookup() found = %v, want %v", ok, tt.found)
			}
			if ok && p.Name != tt.want {
				t.Errorf("Lookup() = %s, want %s", p.Name, tt.want)
			}
		})
	}
}
