package bop

import (
	"fmt"
	"time"
)

// ExampleBumpByName shows the three bump kinds. Lower components are kept
// unless the policy asks for a reset.
func ExampleBumpByName() {
	v, _ := ParseVersion("0.2.2")

	for _, kind := range []string{"major", "minor", "patch"} {
		next, _ := BumpByName(v, kind, BumpPolicy{})
		fmt.Println(kind, next)
	}

	next, _ := BumpByName(v, "minor", BumpPolicy{ResetLower: true})
	fmt.Println("minor (reset)", next)

	// Output:
	// major 1.2.2
	// minor 0.3.2
	// patch 0.2.3
	// minor (reset) 0.3.0
}

// ExampleRenderChangelog releases the "## [Next]" section of a changelog.
func ExampleRenderChangelog() {
	changelog := "## [Next]\n\n" +
		"[Compare v0.2.2...main](https://github.com/owner/project/compare/v0.2.2...main)\n\n" +
		"- Faster startup.\n\n" +
		"[Next]: https://github.com/owner/project/tree/main\n"

	out, _, err := RenderChangelog(changelog, ReleaseOptions{
		Version:       Version{Major: 0, Minor: 2, Patch: 3},
		Date:          time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC),
		RepositoryURL: "https://github.com/owner/project",
	})
	if err != nil {
		fmt.Println("release failed:", err)
		return
	}
	fmt.Print(out)

	// Output:
	// ## [Next]
	//
	// [Compare v0.2.3...main](https://github.com/owner/project/compare/v0.2.3...main)
	//
	// ## [v0.2.3] — 2026-10-19
	//
	// [Compare v0.2.2...v0.2.3](https://github.com/owner/project/compare/v0.2.2...v0.2.3)
	//
	// - Faster startup.
	//
	// [Next]: https://github.com/owner/project/tree/main
	// [v0.2.3]: https://github.com/owner/project/tree/v0.2.3
}
