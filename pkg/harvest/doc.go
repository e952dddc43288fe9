// Package harvest loads one search results page and collects the tweet
// identifiers it shows.
//
// A Harvester navigates to a day's search URL, waits for the page with a
// WaitPolicy, then keeps scrolling to the bottom while its StopRule says
// more items may load. Identifiers are read from each stream item either
// through live element handles (dom) or from a single HTML snapshot parsed
// with goquery (snapshot).
//
// Items whose handle goes stale or whose id link is missing are skipped and
// counted. A page with no items at all is a normal outcome.
package harvest
