package sbm

import "testing"

func TestAddNodeDuplicateID(t *testing.T) {
	net := NewNetwork([]string{"x"})
	if _, err := net.AddNode("a", "x", 0); err != nil {
		t.Fatal(err)
	}
	if _, err := net.AddNode("a", "x", 0); err == nil {
		t.Fatal("expected ErrDuplicateID")
	}
}

func TestAddNodeUnknownType(t *testing.T) {
	net := NewNetwork([]string{"x"})
	if _, err := net.AddNode("a", "y", 0); err == nil {
		t.Fatal("expected ErrUnknownType")
	}
}

func TestAddEdgeLevelMismatch(t *testing.T) {
	net := NewNetwork([]string{"x"})
	a, _ := net.AddNode("a", "x", 0)
	if err := net.InitializeBlocks(testRNG(), -1); err != nil {
		t.Fatalf("initialize blocks: %v", err)
	}
	block, _ := net.GetNodeByID(a.Parent().ID, 1)
	if err := net.AddEdge(a, block); err == nil {
		t.Fatal("expected ErrLevelMismatch")
	}
}

func TestInitializeBlocksOnePerNode(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), -1); err != nil {
		t.Fatalf("initialize blocks: %v", err)
	}
	n, err := net.NumNodesOfType("x", 1)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("num blocks = %d, want 4", n)
	}
}

func TestInitializeBlocksOverprovisioned(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), 5); err == nil {
		t.Fatal("expected ErrOverprovisioned")
	}
}

func TestInitializeBlocksBipartiteTypePartitioning(t *testing.T) {
	net := NewNetwork([]string{"u", "v"})
	u1, _ := net.AddNode("u1", "u", 0)
	u2, _ := net.AddNode("u2", "u", 0)
	v1, _ := net.AddNode("v1", "v", 0)
	v2, _ := net.AddNode("v2", "v", 0)
	mustEdge := func(a, b *Node) {
		if err := net.AddEdge(a, b); err != nil {
			t.Fatalf("add edge %s-%s: %v", a.ID, b.ID, err)
		}
	}
	mustEdge(u1, v1)
	mustEdge(u1, v2)
	mustEdge(u2, v2)

	if err := net.InitializeBlocks(testRNG(), -1); err != nil {
		t.Fatalf("initialize blocks: %v", err)
	}

	uBlocks, err := net.GetNodesOfTypeAtLevel("u", 1)
	if err != nil {
		t.Fatal(err)
	}
	for _, b := range uBlocks {
		for _, c := range b.Children() {
			if c.Type != b.Type {
				t.Fatalf("block %s (type %d) has child %s of type %d", b.ID, b.Type, c.ID, c.Type)
			}
		}
	}
}

func TestDeleteBlockLevelNoBlocks(t *testing.T) {
	net := NewNetwork([]string{"x"})
	if err := net.DeleteBlockLevel(); err != ErrNoBlocks {
		t.Fatalf("expected ErrNoBlocks, got %v", err)
	}
}

func TestDeleteAllBlocksLeavesLevelZero(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), -1); err != nil {
		t.Fatal(err)
	}
	net.DeleteAllBlocks()
	if net.NumLevels() != 1 {
		t.Fatalf("num levels after delete all = %d, want 1", net.NumLevels())
	}
}

func TestCleanEmptyBlocksRemovesChildless(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), 1); err != nil {
		t.Fatal(err)
	}
	nodes, _ := net.GetNodesAtLevel(0)
	block := nodes[0].Parent()
	for _, n := range nodes {
		n.SetParent(nil)
	}
	removed := net.CleanEmptyBlocks()
	found := false
	for _, b := range removed {
		if b.ID == block.ID {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected block %s to be removed", block.ID)
	}
	n, _ := net.NumNodesOfType("x", 1)
	if n != 0 {
		t.Fatalf("blocks remaining = %d, want 0", n)
	}
}

func TestBlockIDFormat(t *testing.T) {
	net := buildCycle(t)
	if err := net.InitializeBlocks(testRNG(), 1); err != nil {
		t.Fatal(err)
	}
	blocks, _ := net.GetNodesOfTypeAtLevel("x", 1)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	want := "x-1_0"
	if blocks[0].ID != want {
		t.Fatalf("block id = %q, want %q", blocks[0].ID, want)
	}
}
