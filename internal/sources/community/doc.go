// Package community implements the steamcommunity.com adapters: the
// structured-XML game list, the HTML games-page scrape with its embedded
// script array, and the per-app achievements XML endpoint. Cookie
// authentication is optional throughout.
package community
