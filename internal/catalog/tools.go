package catalog

import "github.com/mark3labs/mcp-go/mcp"

// Category ids.
const (
	CompanyData          = "company_data"
	SECDocuments         = "sec_documents"
	InstitutionalFilings = "institutional_filings"
	ETFData              = "etf_data"
	FormADVFirms         = "form_adv_firms"
	FormADVOwnership     = "form_adv_ownership"
	FormADVFunds         = "form_adv_funds"
	FormADVDisclosures   = "form_adv_disclosures"
	FormADVOther         = "form_adv_other"
	Lobbying             = "lobbying"
	Watchlists           = "watchlists"
	WatchlistItems       = "watchlist_items"
)

var categories = []Category{
	{ID: CompanyData, Name: "Company Data",
		Description:    "Financial statements (10-K/10-Q), fiscal calendars, and SEC filings for public companies",
		ExampleQueries: []string{"Get Apple's financial statements", "Show Tesla's fiscal calendar", "List Microsoft's SEC filings"}},
	{ID: SECDocuments, Name: "SEC Documents",
		Description:    "Proxy/stream SEC filing documents, retrieve document metadata, fetch documents directly from SEC EDGAR, and extract text from documents",
		ExampleQueries: []string{"Get document from SEC filing", "Check document size before downloading", "Fetch 10-K directly from SEC EDGAR", "Extract text from a PDF filing"}},
	{ID: InstitutionalFilings, Name: "Institutional Filings",
		Description:    "Form 13-F institutional holdings and Form 4 insider trading data",
		ExampleQueries: []string{"Show Berkshire Hathaway's holdings", "Find hedge funds by name", "Get insider trading Form 4"}},
	{ID: ETFData, Name: "ETF Data",
		Description:    "ETF holdings from N-PORT filings with valuations and asset categories",
		ExampleQueries: []string{"Show SPY's top holdings", "Get QQQ portfolio"}},
	{ID: FormADVFirms, Name: "Form ADV - Firms",
		Description:    "Search and retrieve investment adviser firms by CRD number, registration status, AUM",
		ExampleQueries: []string{"Find SEC-registered advisers in California", "Get Vanguard's Form ADV details"}},
	{ID: FormADVOwnership, Name: "Form ADV - Ownership",
		Description:    "Direct owners (Schedule A), indirect owners (Schedule B), ownership chains, and cross-firm owner search",
		ExampleQueries: []string{"Who owns this investment adviser?", "Show ownership chain for firm", "Find firms owned by a person"}},
	{ID: FormADVFunds, Name: "Form ADV - Private Funds",
		Description:    "Private funds (Schedule D.7.B) managed by firms - hedge funds, PE, VC, real estate funds",
		ExampleQueries: []string{"What hedge funds does Bridgewater manage?", "Search for private equity funds over $1B"}},
	{ID: FormADVDisclosures, Name: "Form ADV - Disclosures & Brochures",
		Description:    "DRP regulatory disclosures, sanctions, fines, and Part 2A/2B brochures",
		ExampleQueries: []string{"Does this adviser have any regulatory issues?", "Get firm brochure"}},
	{ID: FormADVOther, Name: "Form ADV - Other Data",
		Description:    "Filings, addresses, notice filings, related persons, other names, SMA data, AUM history",
		ExampleQueries: []string{"Show firm's filing history", "Get AUM growth over time", "What states is this adviser registered in?"}},
	{ID: Lobbying, Name: "Lobbying Data",
		Description:    "Lobbying client spending patterns, growth metrics, statistical analysis, and detailed client information",
		ExampleQueries: []string{"Which companies increased lobbying most?", "Search for lobbying clients", "Get detailed lobbying history"}},
	{ID: Watchlists, Name: "Watchlists",
		Description:    "Create, list, retrieve, update, and delete user watchlists",
		ExampleQueries: []string{"Show my watchlists", "Create a new watchlist", "Delete a watchlist"}},
	{ID: WatchlistItems, Name: "Watchlist Items",
		Description:    "Add, toggle, update, and delete items (securities or institutional investors) in watchlists",
		ExampleQueries: []string{"Add AAPL to my watchlist", "Remove item from watchlist", "Toggle stock in list"}},
}

func required(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Required(), mcp.Description(desc))
}

func optional(name, desc string) mcp.ToolOption {
	return mcp.WithString(name, mcp.Description(desc))
}

func page() mcp.ToolOption {
	return mcp.WithNumber("page", mcp.Description("Page number"), mcp.Min(1), mcp.DefaultNumber(1))
}

func readOnly(name, desc string, opts ...mcp.ToolOption) mcp.Tool {
	opts = append([]mcp.ToolOption{mcp.WithDescription(desc), mcp.WithReadOnlyHintAnnotation(true)}, opts...)
	return mcp.NewTool(name, opts...)
}

func mutating(name, desc string, destructive bool, opts ...mcp.ToolOption) mcp.Tool {
	opts = append([]mcp.ToolOption{
		mcp.WithDescription(desc),
		mcp.WithReadOnlyHintAnnotation(false),
		mcp.WithDestructiveHintAnnotation(destructive),
	}, opts...)
	return mcp.NewTool(name, opts...)
}

var tools = []entry{
	{category: CompanyData,
		tool: readOnly("get_company_financials",
			"Retrieve financial statements for a company by CIK or ticker symbol. Returns balance sheet, income statement, cash flow statement, and comprehensive income data from 10-K and 10-Q filings.",
			required("company_id", "CIK or ticker symbol"),
			mcp.WithString("period", mcp.Description("Reporting period"), mcp.Enum("annual", "quarterly"))),
		keywords: []string{"financials", "10-K", "10-Q", "balance sheet", "income statement", "cash flow", "quarterly", "annual", "ticker", "CIK", "statements", "revenue", "earnings"}},
	{category: CompanyData,
		tool: readOnly("get_company_calendar",
			"Retrieve the fiscal calendar for a company showing fiscal year end dates and reporting schedules.",
			required("company_cik", "Company CIK")),
		keywords: []string{"calendar", "fiscal year", "fiscal quarter", "reporting schedule", "year end"}},
	{category: CompanyData,
		tool: readOnly("get_company_filings",
			"Retrieve SEC filings for a company by CIK with filtering and pagination.",
			required("cik", "Company CIK"), optional("form_type", "Filter by form type"), page()),
		keywords: []string{"filings", "SEC", "10-K", "10-Q", "8-K", "forms", "documents"}},

	{category: SECDocuments,
		tool: readOnly("get_sec_document", "Proxy/stream an SEC document through the API.",
			required("accession_number", "Filing accession number"), required("cik", "Filer CIK")),
		keywords: []string{"document", "filing", "stream", "download", "SEC"}},
	{category: SECDocuments,
		tool: readOnly("get_sec_document_metadata", "Get metadata about an SEC document without streaming the content.",
			required("accession_number", "Filing accession number"), required("cik", "Filer CIK")),
		keywords: []string{"metadata", "document", "size", "type"}},
	{category: SECDocuments,
		tool: readOnly("fetch_sec_document_direct", "Fetch a document directly from SEC EDGAR. Requires email configuration for User-Agent header.",
			required("cik", "Filer CIK"), required("accession_number", "Filing accession number")),
		keywords: []string{"SEC", "EDGAR", "direct", "fetch", "document"}},
	{category: SECDocuments,
		tool: readOnly("extract_document_text", "Extract text from a document (PDF, HTML, XML) for LLM processing.",
			required("cik", "Filer CIK"), required("accession_number", "Filing accession number"), optional("filename", "Document file name")),
		keywords: []string{"extract", "text", "PDF", "HTML", "parse"}},

	{category: InstitutionalFilings,
		tool:     readOnly("get_form13f_submissions", "List and search Form 13-F institutional filers.", optional("search", "Filer name"), page()),
		keywords: []string{"13-F", "institutional", "holdings", "filers", "search"}},
	{category: InstitutionalFilings,
		tool:     readOnly("get_form13f_submission", "Retrieve Form 13-F holdings data for a specific institutional investor.", required("filer_cik", "Filer CIK")),
		keywords: []string{"13-F", "holdings", "portfolio", "institutional", "investments"}},
	{category: InstitutionalFilings,
		tool:     readOnly("get_form4_filing", "Retrieve SEC Form 4 insider trading filings by accession number.", required("accession_number", "Filing accession number")),
		keywords: []string{"Form 4", "insider", "trading", "transactions", "executive"}},

	{category: ETFData,
		tool:     readOnly("get_etf_holdings", "Retrieve holdings for a specific ETF from N-PORT filings.", required("identifier", "Ticker, CUSIP or series id"), page()),
		keywords: []string{"ETF", "holdings", "N-PORT", "portfolio", "fund"}},

	{category: FormADVFirms,
		tool:     readOnly("get_form_adv_firms", "List and search Form ADV investment adviser firms.", optional("search", "Firm name"), optional("state", "Two-letter state code"), page()),
		keywords: []string{"ADV", "adviser", "RIA", "search", "firms"}},
	{category: FormADVFirms,
		tool:     readOnly("get_form_adv_firm", "Get detailed information about a specific investment adviser firm by CRD number.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "firm", "CRD", "details", "adviser"}},

	{category: FormADVOwnership,
		tool:     readOnly("get_form_adv_direct_owners", "List direct owners (Schedule A) of an investment adviser.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "owners", "Schedule A", "ownership"}},
	{category: FormADVOwnership,
		tool:     readOnly("get_form_adv_indirect_owners", "List indirect owners (Schedule B) of an investment adviser.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "owners", "Schedule B", "indirect"}},

	{category: FormADVFunds,
		tool:     readOnly("get_form_adv_private_funds", "List private funds (Schedule D.7.B) managed by a firm.", required("crd", "Firm CRD number"), page()),
		keywords: []string{"ADV", "private fund", "hedge fund", "private equity", "venture"}},

	{category: FormADVDisclosures,
		tool:     readOnly("get_form_adv_disclosures", "Retrieve DRP regulatory disclosures for a firm.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "DRP", "disclosures", "sanctions", "fines"}},
	{category: FormADVDisclosures,
		tool:     readOnly("get_form_adv_brochures", "List Part 2A/2B brochures filed by a firm.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "brochure", "Part 2A", "Part 2B"}},

	{category: FormADVOther,
		tool:     readOnly("get_form_adv_aum_history", "Retrieve regulatory assets under management over time for a firm.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "AUM", "history", "growth"}},
	{category: FormADVOther,
		tool:     readOnly("get_form_adv_notice_filings", "List the states where a firm has notice filings.", required("crd", "Firm CRD number")),
		keywords: []string{"ADV", "notice filings", "states", "registration"}},

	{category: Lobbying,
		tool:     readOnly("get_lobbying_client_performance", "Retrieve lobbying client spending patterns with growth metrics.", optional("sort", "Sort field"), page()),
		keywords: []string{"lobbying", "spending", "growth", "performance"}},
	{category: Lobbying,
		tool:     readOnly("get_lobbying_clients_search", "Search for lobbying clients by name.", required("query", "Client name")),
		keywords: []string{"lobbying", "client", "search"}},
	{category: Lobbying,
		tool:     readOnly("get_lobbying_client_detail", "Retrieve comprehensive information about a specific lobbying client.", required("client_id", "Lobbying client id")),
		keywords: []string{"lobbying", "client", "detail", "history"}},

	{category: Watchlists,
		tool:     readOnly("get_lists", "Retrieve all watchlists for the authenticated user."),
		keywords: []string{"watchlist", "lists", "portfolio"}},
	{category: Watchlists,
		tool:     mutating("create_list", "Create a new watchlist.", false, required("name", "Watchlist name"), optional("notes", "Notes")),
		keywords: []string{"watchlist", "create", "new"}},
	{category: Watchlists,
		tool:     readOnly("get_list", "Retrieve a specific watchlist with its items.", required("id_or_name", "Watchlist id or name")),
		keywords: []string{"watchlist", "get", "items"}},
	{category: Watchlists,
		tool:     mutating("update_list", "Update a watchlist's name or notes.", false, required("id_or_name", "Watchlist id or name"), optional("name", "New name"), optional("notes", "Notes")),
		keywords: []string{"watchlist", "update", "rename"}},
	{category: Watchlists,
		tool:     mutating("delete_list", "Permanently delete a watchlist.", true, required("id_or_name", "Watchlist id or name")),
		keywords: []string{"watchlist", "delete", "remove"}},

	{category: WatchlistItems,
		tool:     mutating("add_list_item", "Add a security or institutional investor to a watchlist.", false, required("list_id", "Watchlist id"), optional("ticker", "Security ticker"), optional("cik", "Investor CIK")),
		keywords: []string{"watchlist", "add", "item", "security"}},
	{category: WatchlistItems,
		tool:     mutating("toggle_list_item", "Toggle an item's presence in a watchlist.", false, required("list_id", "Watchlist id"), optional("ticker", "Security ticker")),
		keywords: []string{"watchlist", "toggle", "item"}},
	{category: WatchlistItems,
		tool:     mutating("update_list_item", "Update notes for a specific item in a watchlist.", false, required("list_id", "Watchlist id"), required("item_id", "Item id"), optional("notes", "Notes")),
		keywords: []string{"watchlist", "update", "item", "notes"}},
	{category: WatchlistItems,
		tool:     mutating("delete_list_item", "Remove an item from a watchlist.", true, required("list_id", "Watchlist id"), required("item_id", "Item id")),
		keywords: []string{"watchlist", "delete", "item", "remove"}},
}
