// Package testutil provides shared test helpers for pixl.
//
// # Fixtures
//
//   - SampleSprite() - a 4x4 sprite with three frames, one of them two layers deep
//   - SolidFrame, SolidLayer - single-color building blocks
//   - SampleSpriteJSON - a damaged stored sprite for repair tests
//
// # Environment Helpers
//
//   - SetupTestDir(t) - creates a temp directory with the .pixl structure,
//     a config.yaml and a palette, and returns a Store for it
//   - SaveSprite, LoadSprite - store round trips that fail the test on error
//   - MustMarshalJSON, MustUnmarshalJSON, WriteTestFile
//
// # Assertions
//
//   - AssertGridSize, AssertPixel
//   - AssertFrameInvariants, AssertSpriteInvariants - the structural
//     invariants every edit must preserve
//   - AssertFrameNames
//
// # Timeouts
//
//   - ContextWithTestDeadline, ShortOperationContext, WaitFor - bounded waits
//     for tests that run real timers
//
// This package must not import config or anything above it, since the
// animation and export tests use it.
package testutil
