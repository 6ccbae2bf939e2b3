package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/spf13/cobra"
)

type deployData struct {
	Service string
	Domain  string
	User    string
	Workdir string
	Binary  string
	Port    int
}

var systemdUnit = template.Must(template.New("unit").Parse(`[Unit]
Description=shipy app {{.Service}}
After=network.target

[Service]
Type=simple
WorkingDirectory={{.Workdir}}
Environment=SHIPY_DEBUG=0
Environment=SHIPY_ADDR=127.0.0.1:{{.Port}}
# Replace with the output of: shipy gensecret
Environment=SHIPY_SECRET=CHANGE_ME
ExecStart={{.Binary}}
Restart=always
User={{.User}}
Group={{.User}}

[Install]
WantedBy=multi-user.target
`))

var nginxSite = template.Must(template.New("nginx").Parse(`server {
  listen 80;
  server_name {{.Domain}};

  root {{.Workdir}}/public;

  location /public/ {
    alias {{.Workdir}}/public/;
    try_files $uri =404;
    add_header Cache-Control "public, max-age=31536000, immutable";
  }

  location / {
    proxy_pass http://127.0.0.1:{{.Port}};
    proxy_http_version 1.1;
    proxy_set_header Host $host;
    proxy_set_header X-Real-IP $remote_addr;
    proxy_set_header X-Forwarded-For $proxy_add_x_forwarded_for;
    proxy_set_header X-Forwarded-Proto $scheme;
    proxy_redirect off;
  }
}
`))

func deployCmd() *cobra.Command {
	var (
		out  string
		data deployData
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Write systemd and nginx files for a single-host deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := filepath.Abs(data.Workdir)
			if err != nil {
				return err
			}
			data.Workdir = wd
			if data.Binary == "" {
				data.Binary = filepath.Join(wd, data.Service)
			}

			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			files := []struct {
				name string
				tmpl *template.Template
			}{
				{data.Service + ".service", systemdUnit},
				{data.Domain + ".conf", nginxSite},
			}
			for _, f := range files {
				dst := filepath.Join(out, f.name)
				if err := writeTemplate(dst, f.tmpl, data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "write %s\n", dst)
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "\nOn the server:\n")
			fmt.Fprintf(w, "  sudo cp %s/%s.service /etc/systemd/system/\n", out, data.Service)
			fmt.Fprintf(w, "  sudo systemctl enable --now %s.service\n", data.Service)
			fmt.Fprintf(w, "  sudo cp %s/%s.conf /etc/nginx/sites-enabled/\n", out, data.Domain)
			fmt.Fprintf(w, "  sudo nginx -t && sudo systemctl reload nginx\n")
			fmt.Fprintf(w, "  curl -s http://%s/health\n", data.Domain)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "deploy", "output directory")
	cmd.Flags().StringVar(&data.Service, "service", "shipy-app", "systemd service name")
	cmd.Flags().StringVar(&data.Domain, "domain", "example.com", "public domain name")
	cmd.Flags().IntVar(&data.Port, "port", 8000, "local port the app listens on")
	cmd.Flags().StringVar(&data.User, "user", "www-data", "system user running the app")
	cmd.Flags().StringVar(&data.Workdir, "workdir", ".", "application directory on the server")
	cmd.Flags().StringVar(&data.Binary, "binary", "", "path to the app binary (default <workdir>/<service>)")
	return cmd
}

func writeTemplate(dst string, tmpl *template.Template, data any) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if err := tmpl.Execute(f, data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
