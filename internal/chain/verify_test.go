package chain

import "testing"

func TestVerifyBlockRejectsEmptyFields(t *testing.T) {
	if VerifyBlock(nil) {
		t.Error("VerifyBlock(nil) should be false")
	}
	if VerifyBlock(&Block{}) {
		t.Error("a zero-valued block should not verify")
	}
}

func TestVerifyBlockAcceptsLearnedBlock(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	if !VerifyBlock(&c.Memory[0]) {
		t.Error("a block admitted by Learn should verify")
	}
}

func TestVerifyChainEmptyFails(t *testing.T) {
	c := New(newTestDeviceID())
	if c.VerifyChain() {
		t.Error("an empty chain should not verify")
	}
}

func TestVerifyChainAllValid(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	c.Learn("b", "2")
	if !c.VerifyChain() {
		t.Error("a chain of freshly admitted blocks should verify")
	}
}

func TestVerifyChainFailsOnBadBlock(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	c.Memory[0].Hash = [HashSize]byte{}

	if c.VerifyChain() {
		t.Error("a chain with a zeroed block hash should not verify")
	}
}

func TestValidationReportMarksInvalidBlocksWithoutChecking(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	c.Learn("b", "2")
	c.Memory[1].Valid = false

	report := c.ValidationReport()
	if len(report) != 2 {
		t.Fatalf("len(report) = %d, want 2", len(report))
	}
	if !report[0].Valid || !report[0].OK {
		t.Errorf("report[0] = %+v, want valid+ok", report[0])
	}
	if report[1].Valid {
		t.Errorf("report[1].Valid should be false")
	}
	if report[1].OK {
		t.Errorf("an invalid block should not be checked (OK should stay false)")
	}
}

func TestTrustScoreOnlyCountsHighConfidenceImmutableBlocks(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	c.Learn("b", "2")
	c.Memory[0].Immutable = true
	c.Memory[0].Confidence = 0.95
	c.Memory[1].Immutable = true
	c.Memory[1].Confidence = 0.5 // below the 0.9 floor, excluded

	score := c.TrustScore()
	if score != 0.95 {
		t.Errorf("TrustScore = %v, want 0.95", score)
	}
}

func TestTrustScoreZeroWhenNoQualifyingBlocks(t *testing.T) {
	c := New(newTestDeviceID())
	c.Learn("a", "1")
	if score := c.TrustScore(); score != 0 {
		t.Errorf("TrustScore = %v, want 0", score)
	}
}
