// Package registry downloads, caches and queries the IEEE OUI registry.
//
// # Components
//
//   - Fetcher keeps a local copy of the registry export no older than a TTL
//     (24h by default). It makes at most one GET per call and never retries.
//   - Store turns the fetch outcome into an oui.Mapping. A fresh snapshot is
//     served from the binary dump; a refreshed one is parsed from CSV and
//     dumped again as JSON and binary.
//   - Engine answers lookups, counts and filters over the loaded mapping.
//
// Open chains the three:
//
//	engine, meta, err := registry.Open(ctx, registry.Options{
//	    SourceURL: cfg.Registry.SourceURL,
//	    Cache:     registry.NewCacheState(cfg.Registry.CacheDir, cfg.Registry.Basename),
//	})
//	if err != nil {
//	    return err
//	}
//	if !meta.Usable() {
//	    logger.Error("registry unavailable", "error", meta.FetchErr)
//	}
//	fmt.Println(engine.OrganizationName("50:1A:C5:00:00:00")) // Microsoft
//
// # Cache layout
//
// All files share one directory and basename (iee_oui by default):
//
//	iee_oui.csv   raw export as downloaded
//	iee_oui.json  ordered, 4-space indented object keyed by OUI
//	iee_oui.mpk   zstd-compressed msgpack entries, used for fast reloads
//
// Nothing guards the cache against concurrent writers in other processes;
// files are replaced by rename so readers never see a partial write.
package registry
