package repository

// AdventureWorks-style sales order schema: one invoice document plus the
// order header and lines it resolved to.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS Documents (
    DocumentID INTEGER PRIMARY KEY AUTOINCREMENT,
    SalesOrderID INTEGER,
    Filename TEXT,
    MimeType TEXT,
    VendorName TEXT,
    InvoiceNumber TEXT,
    InvoiceDate TEXT,
    DueDate TEXT,
    Terms TEXT,
    BillToName TEXT,
    BillToAddress TEXT,
    ShipToName TEXT,
    ShipToAddress TEXT,
    Currency TEXT,
    Notes TEXT,
    Subtotal REAL,
    Tax REAL,
    Freight REAL,
    Total REAL,
    RawText TEXT,
    CreatedAt TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS SalesOrderHeader (
    SalesOrderID INTEGER PRIMARY KEY,
    RevisionNumber INTEGER,
    OrderDate TEXT,
    DueDate TEXT,
    ShipDate TEXT,
    Status INTEGER,
    OnlineOrderFlag INTEGER,
    SalesOrderNumber TEXT,
    PurchaseOrderNumber TEXT,
    AccountNumber TEXT,
    CustomerID INTEGER,
    SalesPersonID TEXT,
    TerritoryID TEXT,
    BillToAddressID TEXT,
    ShipToAddressID TEXT,
    ShipMethodID TEXT,
    CreditCardID TEXT,
    CreditCardApprovalCode TEXT,
    CurrencyRateID TEXT,
    SubTotal REAL,
    TaxAmt REAL,
    Freight REAL,
    TotalDue REAL
);

CREATE TABLE IF NOT EXISTS SalesOrderDetail (
    SalesOrderDetailID INTEGER PRIMARY KEY AUTOINCREMENT,
    SalesOrderID INTEGER,
    CarrierTrackingNumber TEXT,
    OrderQty INTEGER,
    ProductID TEXT,
    ProductName TEXT,
    SpecialOfferID TEXT,
    UnitPrice REAL,
    UnitPriceDiscount REAL,
    LineTotal REAL,
    FOREIGN KEY (SalesOrderID) REFERENCES SalesOrderHeader (SalesOrderID)
);

CREATE INDEX IF NOT EXISTS idx_salesorderdetail_salesorderid
    ON SalesOrderDetail (SalesOrderID);
`
