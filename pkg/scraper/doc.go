// Package scraper runs the candidate pipeline end to end.
//
// For every candidate with a twitter handle the scraper walks the configured
// date window one calendar day at a time, builds the search URL for that day
// and hands it to a harvester that drives the browser. The identifiers found
// for a candidate are merged into the output set once all of its days are
// done, and only then is the checkpoint rewritten with the candidates that
// follow it. An interrupted run therefore resumes at the first candidate
// whose identifiers were not persisted.
//
// Usage:
//
//	session, err := browser.Open(ctx, cfg.Browser.Driver, opts)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	s, err := scraper.New(cfg, session, scraper.WithReporter(ui.NewProgressDisplay(false)))
//	if err != nil {
//	    return err
//	}
//
//	cands, err := s.LoadCandidates()
//	if err != nil {
//	    return err
//	}
//	summary, err := s.Run(ctx, cands)
//
// Candidates whose twitter field is empty are skipped without a page load but
// still drop out of the checkpoint once passed.
package scraper
