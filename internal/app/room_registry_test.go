package app

import (
	"errors"
	"fmt"
	"testing"

	"github.com/GhadeBhavesh/QZone/internal/domain"
)

func TestCreateOrGetIsIdempotent(t *testing.T) {
	reg := NewRoomRegistry()

	room, err := reg.CreateOrGet("R1", "c1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if room.Creator != "Alice" || len(room.Participants) != 1 {
		t.Fatalf("unexpected room after create: %+v", room)
	}
	if !room.Participants[0].IsCreator {
		t.Fatalf("creating participant should carry the creator flag")
	}

	// Second create for the same room keeps the original creator.
	room, err = reg.CreateOrGet("R1", "c2", "Mallory")
	if err != nil {
		t.Fatalf("idempotent create: %v", err)
	}
	if room.Creator != "Alice" {
		t.Fatalf("creator reset on idempotent create: %s", room.Creator)
	}
	if len(room.Participants) != 2 {
		t.Fatalf("expected caller appended on idempotent path, got %d participants", len(room.Participants))
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	reg := NewRoomRegistry()
	if _, err := reg.Join("nope", "c1", "Alice"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("expected ErrRoomNotFound, got %v", err)
	}
}

func TestRoomCapacity(t *testing.T) {
	reg := NewRoomRegistry()
	reg.CreateOrGet("R1", "c0", "Alice")
	for i := 1; i < MaxRoomSize; i++ {
		if _, err := reg.Join("R1", fmt.Sprintf("c%d", i), fmt.Sprintf("P%d", i)); err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}

	if _, err := reg.Join("R1", "c10", "Overflow"); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull on 11th join, got %v", err)
	}

	// The idempotent create path is capped too.
	if _, err := reg.CreateOrGet("R1", "c10", "Overflow"); !errors.Is(err, domain.ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull on create into a full room, got %v", err)
	}

	room, ok := reg.Get("R1")
	if !ok || len(room.Participants) != MaxRoomSize {
		t.Fatalf("rejected join mutated the roster: %d participants", len(room.Participants))
	}
}

func TestLeaveDeletesEmptyRoom(t *testing.T) {
	reg := NewRoomRegistry()
	reg.CreateOrGet("R1", "c1", "Alice")

	room, removed := reg.Leave("R1", "c1")
	if !removed {
		t.Fatalf("expected participant removed")
	}
	if len(room.Participants) != 0 {
		t.Fatalf("snapshot should reflect post-removal roster, got %d", len(room.Participants))
	}
	if _, ok := reg.Get("R1"); ok {
		t.Fatalf("empty room must not survive")
	}
	if _, err := reg.Join("R1", "c2", "Bob"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatalf("join after deletion should fail with ErrRoomNotFound, got %v", err)
	}
}

func TestLeaveIsNoOpWhenAbsent(t *testing.T) {
	reg := NewRoomRegistry()
	reg.CreateOrGet("R1", "c1", "Alice")

	if _, removed := reg.Leave("R1", "ghost"); removed {
		t.Fatalf("unknown participant should not report removed")
	}
	if _, removed := reg.Leave("nope", "c1"); removed {
		t.Fatalf("unknown room should not report removed")
	}
}

func TestRemoveEverywhere(t *testing.T) {
	reg := NewRoomRegistry()
	reg.CreateOrGet("R1", "c1", "Alice")
	reg.CreateOrGet("R2", "c2", "Bob")
	if _, err := reg.Join("R1", "shared", "Carol"); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := reg.Join("R2", "shared", "Carol"); err != nil {
		t.Fatalf("join: %v", err)
	}

	affected := reg.RemoveEverywhere("shared")
	if len(affected) != 2 {
		t.Fatalf("expected 2 affected rooms, got %d", len(affected))
	}
	for _, room := range affected {
		if len(room.Participants) != 1 {
			t.Fatalf("room %s should have 1 participant left, got %d", room.ID, len(room.Participants))
		}
	}

	// Removing a connection in no rooms is safe.
	if affected := reg.RemoveEverywhere("shared"); len(affected) != 0 {
		t.Fatalf("expected no affected rooms, got %d", len(affected))
	}
}

func TestRemoveEverywhereCleansEmptyRooms(t *testing.T) {
	reg := NewRoomRegistry()
	reg.CreateOrGet("R1", "solo", "Alice")

	reg.RemoveEverywhere("solo")
	if _, ok := reg.Get("R1"); ok {
		t.Fatalf("room emptied by disconnect must be deleted")
	}
}

func TestConnectionsPreserveRosterOrder(t *testing.T) {
	reg := NewRoomRegistry()
	reg.CreateOrGet("R1", "c1", "Alice")
	reg.Join("R1", "c2", "Bob")
	reg.Join("R1", "c3", "Carol")

	conns := reg.Connections("R1")
	want := []string{"c1", "c2", "c3"}
	if len(conns) != len(want) {
		t.Fatalf("expected %d connections, got %d", len(want), len(conns))
	}
	for i := range want {
		if conns[i] != want[i] {
			t.Fatalf("roster order broken at %d: %v", i, conns)
		}
	}
}

func TestSnapshotsAreDetached(t *testing.T) {
	reg := NewRoomRegistry()
	room, _ := reg.CreateOrGet("R1", "c1", "Alice")
	room.Participants[0].DisplayName = "Hacked"

	fresh, _ := reg.Get("R1")
	if fresh.Participants[0].DisplayName != "Alice" {
		t.Fatalf("snapshot mutation leaked into the registry")
	}
}
