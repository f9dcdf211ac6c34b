// Package resxsweep finds string resources in a .resx manifest that no
// source file references, and deletes them from every place a resource
// lives: the manifest itself, the project file's None items and the
// project's Resources folder.
//
// # Pipeline
//
// A scan runs four steps in order:
//
//  1. Build the candidate keys from the manifest's data entries, minus any
//     key that starts with an excluded prefix.
//  2. Enumerate the source files under the project root whose names end
//     with one of the configured extensions.
//  3. For every reference format (for example "AppResources.%"), expand the
//     placeholder with each remaining key and drop the keys found in a file.
//  4. Pair the keys that are left with their manifest values.
//
// # Usage
//
//	e, err := resxsweep.New(resxsweep.WithJournal(".resxsweep/journal.db"))
//	if err != nil { ... }
//	defer e.Close()
//
//	cfg := resxsweep.ParseScanConfig(root, manifest, ".cs,.xaml", "AppResources.%", "")
//	s, err := e.Scan(ctx, cfg)
//	for _, r := range s.Records() { ... }
//
//	s.SelectAll(true)
//	report, err := s.DeleteSelected(ctx)
//
// # Deletion
//
// [Session.Delete] removes keys in stages: manifest entries, then project
// None items whose Include appears in a removed entry's value, then the
// referenced files in the Resources folder, then the session's own state.
// The stages are not transactional. A failing stage stops the run, earlier
// stages stay applied, and the returned [DeleteReport] says which stages
// completed. With a journal configured every stage is recorded before and
// after it runs.
package resxsweep
