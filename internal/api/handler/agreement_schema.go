package handler

type createAgreementRequest struct {
	Text           string `json:"agreement_text" validate:"required"`
	Category       string `json:"category"       validate:"required,oneof=Clients Suppliers Operations HR Marketing Finance Other"`
	NeedsSignature bool   `json:"needs_signature"`
	Tag            string `json:"agreement_tag"`
}

type createAgreementResponse struct {
	Fingerprint string `json:"hash"`
	CreatedAt   string `json:"created_at"`
}

type lookupRequest struct {
	Fingerprint string `json:"hash" validate:"required,len=64,hexadecimal"`
}

type lookupResponse struct {
	Status        string `json:"status"`
	AgreementText string `json:"agreementText"`
}

type deleteRequest struct {
	Fingerprint string `json:"hash" validate:"required,len=64,hexadecimal"`
}

type agreementSummaryResponse struct {
	Fingerprint       string `json:"agreement_hash"`
	Category          string `json:"category"`
	NeedsSignature    bool   `json:"needs_signature"`
	Tag               string `json:"agreement_tag,omitempty"`
	CreatedAt         string `json:"created_at"`
	CounterSigned     bool   `json:"counter_signed"`
	CountersignerName string `json:"countersigner_name,omitempty"`
	CountersignedAt   string `json:"countersigned_timestamp,omitempty"`
	AnchorStatus      string `json:"anchor_status,omitempty"`
	AnchorTxID        string `json:"anchor_tx_id,omitempty"`
}

type listAgreementsResponse struct {
	Agreements []agreementSummaryResponse `json:"agreements"`
}

type countersignRequest struct {
	Fingerprint string `json:"hash"     validate:"required,len=64,hexadecimal"`
	SignerName  string `json:"userName" validate:"required"`
}

type downloadData struct {
	Fingerprint     string `json:"agreementHash"`
	AgreementText   string `json:"agreementText"`
	CountersignedAt string `json:"countersignedTimestamp"`
}

type countersignResponse struct {
	Success      bool         `json:"success"`
	AnchorStatus string       `json:"anchor_status"`
	TxHash       string       `json:"tx_hash,omitempty"`
	AnchorDetail string       `json:"anchor_detail,omitempty"`
	DownloadData downloadData `json:"downloadData"`
}

type receiptRequest struct {
	Fingerprint string `json:"hash" validate:"required,len=64,hexadecimal"`
}
