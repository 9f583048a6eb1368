package sbm

import "testing"

func TestGetStateOmitsTopLevel(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), -1); err != nil {
		t.Fatal(err)
	}
	dump := net.GetState()
	for _, id := range dump.IDs {
		for _, n := range mustNodesAtLevel(t, net, 1) {
			if n.ID == id {
				t.Fatalf("state dump should omit top-level node %s", id)
			}
		}
	}
	if len(dump.IDs) != 4 {
		t.Fatalf("dump length = %d, want 4", len(dump.IDs))
	}
}

func mustNodesAtLevel(t *testing.T, net *Network, level int) []*Node {
	t.Helper()
	nodes, err := net.GetNodesAtLevel(level)
	if err != nil {
		t.Fatal(err)
	}
	return nodes
}

func TestStateRoundTripPreservesPartitionAndEntropy(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), 2); err != nil {
		t.Fatal(err)
	}

	beforeEntropy, err := net.Entropy(0)
	if err != nil {
		t.Fatal(err)
	}
	beforePartition := partitionByMembers(t, net)

	dump := net.GetState()

	other := NewNetwork([]string{"x"})
	for _, e := range [][2]string{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"d", "a"}} {
		var err error
		for _, id := range e {
			if _, lookupErr := other.GetNodeByID(id, 0); lookupErr != nil {
				if _, err = other.AddNode(id, "x", 0); err != nil {
					t.Fatalf("add node %s: %v", id, err)
				}
			}
		}
	}
	a, _ := other.GetNodeByID("a", 0)
	b, _ := other.GetNodeByID("b", 0)
	c, _ := other.GetNodeByID("c", 0)
	d, _ := other.GetNodeByID("d", 0)
	for _, pair := range [][2]*Node{{a, b}, {b, c}, {c, d}, {d, a}} {
		if err := other.AddEdge(pair[0], pair[1]); err != nil {
			t.Fatal(err)
		}
	}

	if err := other.UpdateState(dump); err != nil {
		t.Fatalf("update state: %v", err)
	}

	afterEntropy, err := other.Entropy(0)
	if err != nil {
		t.Fatal(err)
	}
	if afterEntropy != beforeEntropy {
		t.Fatalf("entropy after round-trip = %v, want %v", afterEntropy, beforeEntropy)
	}

	afterPartition := partitionByMembers(t, other)
	if !samePartition(beforePartition, afterPartition) {
		t.Fatalf("partition changed across round-trip: before=%v after=%v", beforePartition, afterPartition)
	}
}

// partitionByMembers maps each level-0 node id to the set of sibling ids
// sharing its block, so partitions can be compared up to block-id renaming.
func partitionByMembers(t *testing.T, net *Network) map[string]map[string]bool {
	t.Helper()
	nodes := mustNodesAtLevel(t, net, 0)
	groups := map[*Node][]string{}
	for _, n := range nodes {
		groups[n.Parent()] = append(groups[n.Parent()], n.ID)
	}
	result := map[string]map[string]bool{}
	for _, ids := range groups {
		set := map[string]bool{}
		for _, id := range ids {
			set[id] = true
		}
		for _, id := range ids {
			result[id] = set
		}
	}
	return result
}

func samePartition(a, b map[string]map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id, group := range a {
		other, ok := b[id]
		if !ok || len(other) != len(group) {
			return false
		}
		for member := range group {
			if !other[member] {
				return false
			}
		}
	}
	return true
}
